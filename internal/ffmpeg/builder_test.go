package ffmpeg

import (
	"slices"
	"testing"
)

func TestBuildDecodeArgs(t *testing.T) {
	args := BuildDecodeArgs(DecodeParams{Input: "/videos/input.mp4"})

	if !slices.Contains(args, "/videos/input.mp4") {
		t.Error("decode args missing input path")
	}
	if !containsPair(args, "-f", "rawvideo") {
		t.Error("decode args missing rawvideo output format")
	}
	if !containsPair(args, "-pix_fmt", PixelFormat) {
		t.Error("decode args missing pixel format")
	}
	if args[len(args)-1] != "-" {
		t.Error("decode output must be stdout")
	}
}

func TestBuildEncodeArgs(t *testing.T) {
	args := BuildEncodeArgs(EncodeParams{
		Output:    "/videos/out.mkv",
		Width:     1920,
		Height:    1080,
		FrameRate: "30000/1001",
		Codec:     "libx264",
	})

	if !containsPair(args, "-video_size", "1920x1080") {
		t.Error("encode args missing geometry")
	}
	if !containsPair(args, "-framerate", "30000/1001") {
		t.Error("encode args missing frame rate")
	}
	if !containsPair(args, "-c:v", "libx264") {
		t.Error("encode args missing codec override")
	}
	if !containsPair(args, "-i", "-") {
		t.Error("encode input must be stdin")
	}
	if args[len(args)-1] != "/videos/out.mkv" {
		t.Error("encode args must end with output path")
	}
}

func TestBuildEncodeArgs_Defaults(t *testing.T) {
	args := BuildEncodeArgs(EncodeParams{Output: "out.mkv", Width: 4, Height: 4})

	if !containsPair(args, "-c:v", DefaultCodec) {
		t.Errorf("expected default codec %s", DefaultCodec)
	}
	if !containsPair(args, "-framerate", "25") {
		t.Error("expected default frame rate 25")
	}
}

func TestBuildProbeArgs(t *testing.T) {
	args := BuildProbeArgs("clip.avi")
	if args[len(args)-1] != "clip.avi" {
		t.Error("probe args must end with input path")
	}
	if !containsPair(args, "-print_format", "json") {
		t.Error("probe output must be JSON")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"30", 30},
		{"25.0", 25},
		{"30000/1001", 29.97002997002997},
		{"0/0", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseFrameRate(tt.expr); got != tt.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

// containsPair reports whether key is immediately followed by value in args.
func containsPair(args []string, key, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}
