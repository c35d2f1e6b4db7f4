package mask

import (
	"crypto/subtle"
	"errors"
	"fmt"
)

// ErrShapeMismatch indicates a frame and mask of different byte lengths.
// With masks sized from the frame's own shape this is unreachable; if it
// fires, mask sizing is broken and the run must abort rather than write
// a truncated or padded frame.
var ErrShapeMismatch = errors.New("frame and mask shapes differ")

// Apply XORs frame with key into dst. All three slices must have the same
// length; dst may alias frame for an in-place transform. Applying the same
// key twice restores the original bytes.
func Apply(dst, frame, key []byte) error {
	if len(frame) != len(key) {
		return fmt.Errorf("%w: frame %d bytes, mask %d bytes", ErrShapeMismatch, len(frame), len(key))
	}
	if len(dst) != len(frame) {
		return fmt.Errorf("%w: dst %d bytes, frame %d bytes", ErrShapeMismatch, len(dst), len(frame))
	}
	subtle.XORBytes(dst, frame, key)
	return nil
}
