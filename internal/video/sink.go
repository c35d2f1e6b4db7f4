package video

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/framecloak/framecloak/internal/ffmpeg"
)

// pipeSink feeds raw frames to an ffmpeg encoder over its stdin pipe.
type pipeSink struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *bytes.Buffer
	closeOnce sync.Once
	closeErr  error
}

// OpenSink starts an encoder writing to path at the source geometry,
// using the default lossless codec.
func OpenSink(path string, meta Metadata) (FrameSink, error) {
	return NewSinkOpener("")(path, meta)
}

// NewSinkOpener returns a SinkOpener bound to a specific codec. An empty
// codec selects the default. Lossy codecs will break exact round-trips;
// that trade-off belongs to the caller.
func NewSinkOpener(codec string) SinkOpener {
	return func(path string, meta Metadata) (FrameSink, error) {
		var stderr bytes.Buffer
		cmd := exec.Command("ffmpeg", ffmpeg.BuildEncodeArgs(ffmpeg.EncodeParams{
			Output:    path,
			Width:     meta.Width,
			Height:    meta.Height,
			FrameRate: meta.FrameRate,
			Codec:     codec,
		})...)
		cmd.Stderr = &stderr

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("creating encoder pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("starting encoder: %w", err)
		}

		return &pipeSink{
			cmd:    cmd,
			stdin:  stdin,
			stderr: &stderr,
		}, nil
	}
}

func (s *pipeSink) WriteFrame(buf []byte) error {
	if _, err := s.stdin.Write(buf); err != nil {
		return fmt.Errorf("writing frame: %w%s", err, s.stderrTail())
	}
	return nil
}

// Close signals end of stream and waits for the encoder to finalize the
// container. An encoder failure here means the output file is broken, so
// the error is surfaced.
func (s *pipeSink) Close() error {
	s.closeOnce.Do(func() {
		s.stdin.Close()
		if err := s.cmd.Wait(); err != nil {
			s.closeErr = fmt.Errorf("finalizing output: %w%s", err, s.stderrTail())
		}
	})
	return s.closeErr
}

func (s *pipeSink) stderrTail() string {
	msg := strings.TrimSpace(s.stderr.String())
	if msg == "" {
		return ""
	}
	return " (ffmpeg: " + msg + ")"
}
