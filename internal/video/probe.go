package video

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/framecloak/framecloak/internal/ffmpeg"
)

// Probe reports the first video stream's metadata via ffprobe.
func Probe(path string) (Metadata, error) {
	cmd := exec.Command("ffprobe", ffmpeg.BuildProbeArgs(path)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return Metadata{}, fmt.Errorf("ffprobe: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Metadata{}, fmt.Errorf("ffprobe: %w", err)
	}

	var result struct {
		Streams []struct {
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			RFrameRate   string `json:"r_frame_rate"`
			NbFrames     string `json:"nb_frames"`
			NbReadFrames string `json:"nb_read_frames"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		return Metadata{}, fmt.Errorf("parsing ffprobe output: %w", err)
	}
	if len(result.Streams) == 0 {
		return Metadata{}, fmt.Errorf("no video stream in %s", path)
	}

	s := result.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return Metadata{}, fmt.Errorf("invalid geometry %dx%d in %s", s.Width, s.Height, path)
	}

	meta := Metadata{
		Width:     s.Width,
		Height:    s.Height,
		FrameRate: s.RFrameRate,
	}
	// nb_frames is container metadata and absent for some formats;
	// treat anything unparseable as unknown.
	if n, convErr := strconv.Atoi(s.NbFrames); convErr == nil && n > 0 {
		meta.TotalFrames = n
	} else if n, convErr := strconv.Atoi(s.NbReadFrames); convErr == nil && n > 0 {
		meta.TotalFrames = n
	}
	return meta, nil
}
