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

// pipeSource decodes a container to raw frames through an ffmpeg child
// process, reading frame-sized chunks off its stdout pipe.
type pipeSource struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	stderr    *bytes.Buffer
	meta      Metadata
	closeOnce sync.Once
}

// OpenSource probes the container and starts a decoder for it.
func OpenSource(path string) (FrameSource, error) {
	meta, err := Probe(path)
	if err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd := exec.Command("ffmpeg", ffmpeg.BuildDecodeArgs(ffmpeg.DecodeParams{Input: path})...)
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating decoder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting decoder: %w", err)
	}

	return &pipeSource{
		cmd:    cmd,
		stdout: stdout,
		stderr: &stderr,
		meta:   meta,
	}, nil
}

func (s *pipeSource) Metadata() Metadata {
	return s.meta
}

// ReadFrame fills buf with the next frame. A clean EOF at a frame
// boundary means the stream is exhausted; EOF mid-frame is an error.
func (s *pipeSource) ReadFrame(buf []byte) (bool, error) {
	_, err := io.ReadFull(s.stdout, buf)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading frame: %w%s", err, s.stderrTail())
	}
	return true, nil
}

// Close shuts down the decoder. When called before the stream is
// exhausted the child exits on its broken pipe; its exit status is
// irrelevant either way.
func (s *pipeSource) Close() error {
	s.closeOnce.Do(func() {
		s.stdout.Close()
		_ = s.cmd.Wait()
	})
	return nil
}

func (s *pipeSource) stderrTail() string {
	msg := strings.TrimSpace(s.stderr.String())
	if msg == "" {
		return ""
	}
	return " (ffmpeg: " + msg + ")"
}
