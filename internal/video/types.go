// Package video adapts ffmpeg subprocesses into frame-level sources and
// sinks. A source yields raw rgb24 frames in container order until
// exhausted; a sink accepts raw frames in order and finalizes the output
// container on Close.
package video

// Channels is the number of bytes per pixel in the raw frame layout.
const Channels = 3

// Metadata describes the video stream of a source container.
type Metadata struct {
	Width  int
	Height int
	// FrameRate is the ffprobe rate expression, e.g. "30000/1001".
	FrameRate string
	// TotalFrames is a best-effort estimate from container metadata.
	// Zero means unknown; progress reporting degrades gracefully.
	TotalFrames int
}

// FrameBytes returns the byte length of one raw frame.
func (m Metadata) FrameBytes() int {
	return m.Width * m.Height * Channels
}

// FrameSource yields frames in order until exhausted.
// Implementations are not safe for concurrent use; one pipeline owns
// the source for the duration of a run.
type FrameSource interface {
	Metadata() Metadata
	// ReadFrame fills buf with the next frame. Returns false with a nil
	// error when the stream is exhausted at a frame boundary.
	ReadFrame(buf []byte) (bool, error)
	// Close releases the underlying decoder. Safe to call more than
	// once; only the first call has effect.
	Close() error
}

// FrameSink accepts frames in order and finalizes the container on Close.
type FrameSink interface {
	WriteFrame(buf []byte) error
	// Close flushes and finalizes the output. The error matters: an
	// encoder that fails at finalize has produced a broken file.
	Close() error
}

// SourceOpener opens a readable frame source. Injected into the pipeline
// so tests can substitute in-memory sources.
type SourceOpener func(path string) (FrameSource, error)

// SinkOpener opens a writable frame sink at the source's geometry.
type SinkOpener func(path string, meta Metadata) (FrameSink, error)
