package events

// Event type constants for kelindar/event.
const (
	TypeRunStarted uint32 = iota + 1
	TypeRunProgress
	TypeRunCompleted
	TypeRunFailed
	TypeRunCanceled
	TypePresetsReloaded
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// RunStartedEvent is published when a run transitions into the frame loop.
type RunStartedEvent struct {
	RunID     string `json:"run_id" example:"run-000001" doc:"Run identifier"`
	Source    string `json:"source" example:"/videos/input.mp4" doc:"Source video path"`
	Sink      string `json:"sink" example:"/videos/output.mkv" doc:"Output video path"`
	Mode      string `json:"mode" example:"encrypt" doc:"Requested mode (encrypt or decrypt)"`
	Timestamp string `json:"timestamp" example:"2025-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for RunStartedEvent.
func (e RunStartedEvent) Type() uint32 { return TypeRunStarted }

// RunProgressEvent carries a progress update for a running pipeline.
// Percent values are non-decreasing within one run.
type RunProgressEvent struct {
	RunID   string `json:"run_id" example:"run-000001" doc:"Run identifier"`
	Percent int    `json:"percent" example:"42" doc:"Completion percentage, 0-100"`
}

// Type returns the event type identifier for RunProgressEvent.
func (e RunProgressEvent) Type() uint32 { return TypeRunProgress }

// RunCompletedEvent is published exactly once when a run finishes successfully.
type RunCompletedEvent struct {
	RunID     string `json:"run_id" example:"run-000001" doc:"Run identifier"`
	Message   string `json:"message" doc:"Human-readable completion message"`
	Frames    int    `json:"frames" example:"900" doc:"Number of frames written"`
	Timestamp string `json:"timestamp" example:"2025-08-25T10:31:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for RunCompletedEvent.
func (e RunCompletedEvent) Type() uint32 { return TypeRunCompleted }

// RunFailedEvent is published exactly once when a run aborts with an error.
type RunFailedEvent struct {
	RunID     string `json:"run_id" example:"run-000001" doc:"Run identifier"`
	Message   string `json:"message" doc:"Human-readable failure message"`
	Timestamp string `json:"timestamp" example:"2025-08-25T10:31:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for RunFailedEvent.
func (e RunFailedEvent) Type() uint32 { return TypeRunFailed }

// RunCanceledEvent is published exactly once when a cancellation request
// is observed by the frame loop. The sink holds a truncated prefix of the
// output at that point.
type RunCanceledEvent struct {
	RunID     string `json:"run_id" example:"run-000001" doc:"Run identifier"`
	Message   string `json:"message" doc:"Human-readable cancellation message"`
	Frames    int    `json:"frames" example:"120" doc:"Frames written before cancellation"`
	Timestamp string `json:"timestamp" example:"2025-08-25T10:30:30Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for RunCanceledEvent.
func (e RunCanceledEvent) Type() uint32 { return TypeRunCanceled }

// PresetsReloadedEvent is published when the preset file is hot-reloaded.
type PresetsReloadedEvent struct {
	Count     int    `json:"count" example:"3" doc:"Number of presets after reload"`
	Timestamp string `json:"timestamp" example:"2025-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PresetsReloadedEvent.
func (e PresetsReloadedEvent) Type() uint32 { return TypePresetsReloaded }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-08-25T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"pipeline" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
