package pipeline

import "fmt"

// RunError represents a domain-specific error.
type RunError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeSourceOpen    = "SOURCE_OPEN"
	ErrCodeSinkOpen      = "SINK_OPEN"
	ErrCodeFrameIO       = "FRAME_IO"
	ErrCodeShapeMismatch = "SHAPE_MISMATCH"
	ErrCodeRunNotFound   = "RUN_NOT_FOUND"
	ErrCodeInvalidParams = "INVALID_PARAMS"
)

// NewRunError creates a new run error.
func NewRunError(code, message string, cause error) *RunError {
	return &RunError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
