package pipeline

import (
	"errors"
	"sync"

	"github.com/framecloak/framecloak/internal/video"
)

// memSource replays fixed frames from memory.
type memSource struct {
	meta   video.Metadata
	frames [][]byte
	idx    int
	failAt int // 1-based frame whose read fails, 0 disables
	closed int
}

func newMemSource(width, height, total int, frames [][]byte) *memSource {
	return &memSource{
		meta: video.Metadata{
			Width:       width,
			Height:      height,
			FrameRate:   "25",
			TotalFrames: total,
		},
		frames: frames,
	}
}

func (s *memSource) Metadata() video.Metadata { return s.meta }

func (s *memSource) ReadFrame(buf []byte) (bool, error) {
	if s.failAt > 0 && s.idx+1 == s.failAt {
		return false, errors.New("decoder hiccup")
	}
	if s.idx >= len(s.frames) {
		return false, nil
	}
	copy(buf, s.frames[s.idx])
	s.idx++
	return true, nil
}

func (s *memSource) Close() error {
	s.closed++
	return nil
}

// memSink records written frames.
type memSink struct {
	mu       sync.Mutex
	frames   [][]byte
	failAt   int // 1-based frame whose write fails, 0 disables
	closed   int
	closeErr error
}

func (s *memSink) WriteFrame(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.frames)+1 == s.failAt {
		return errors.New("encoder hiccup")
	}
	frame := make([]byte, len(buf))
	copy(frame, buf)
	s.frames = append(s.frames, frame)
	return nil
}

func (s *memSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.closeErr
}

func (s *memSink) written() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func memOpeners(src video.FrameSource, snk video.FrameSink) (video.SourceOpener, video.SinkOpener) {
	return func(string) (video.FrameSource, error) { return src, nil },
		func(string, video.Metadata) (video.FrameSink, error) { return snk, nil }
}

// makeFrames builds n distinct frames with byte 0 marking the frame index.
func makeFrames(n, size int) [][]byte {
	frames := make([][]byte, n)
	for i := range frames {
		f := make([]byte, size)
		for j := range f {
			f[j] = byte(i*31 + j)
		}
		f[0] = byte(i)
		frames[i] = f
	}
	return frames
}

// gatedSource yields one synthetic frame per token and ends when the
// token channel is closed. Used to hold a run open from a test.
type gatedSource struct {
	meta   video.Metadata
	tokens chan struct{}
	served int
}

func newGatedSource(width, height int) *gatedSource {
	return &gatedSource{
		meta: video.Metadata{
			Width:     width,
			Height:    height,
			FrameRate: "25",
		},
		// Buffered so a test's token send cannot deadlock when the loop
		// observes cancellation before reading again.
		tokens: make(chan struct{}, 4),
	}
}

func (s *gatedSource) Metadata() video.Metadata { return s.meta }

func (s *gatedSource) ReadFrame(buf []byte) (bool, error) {
	_, ok := <-s.tokens
	if !ok {
		return false, nil
	}
	for i := range buf {
		buf[i] = byte(s.served)
	}
	s.served++
	return true, nil
}

func (s *gatedSource) Close() error { return nil }
