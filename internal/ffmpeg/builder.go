// Package ffmpeg builds the argument vectors for the ffmpeg and ffprobe
// subprocesses that decode, encode, and probe video containers. Container
// demuxing/muxing and codec work all happen inside ffmpeg; the rest of the
// system only ever sees raw rgb24 frame buffers on a pipe.
package ffmpeg

import (
	"fmt"
	"strconv"
)

// PixelFormat is the raw frame layout exchanged over pipes. Three bytes
// per pixel, row-major, no padding.
const PixelFormat = "rgb24"

// DefaultCodec is the encoder used when none is configured. FFV1 is
// lossless, which a XOR-obfuscated video needs: any lossy codec would
// perturb the mask bytes and make the output undecryptable.
const DefaultCodec = "ffv1"

// DecodeParams describes a decode-to-rawvideo invocation.
type DecodeParams struct {
	Input string
}

// EncodeParams describes a rawvideo-to-container invocation.
type EncodeParams struct {
	Output    string
	Width     int
	Height    int
	FrameRate string // ffmpeg rate expression, e.g. "30" or "30000/1001"
	Codec     string // empty selects DefaultCodec
}

// BuildDecodeArgs returns ffmpeg arguments that decode any supported
// container into a raw rgb24 frame stream on stdout.
func BuildDecodeArgs(p DecodeParams) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", p.Input,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", PixelFormat,
		"-",
	}
}

// BuildEncodeArgs returns ffmpeg arguments that encode a raw rgb24 frame
// stream from stdin into the output container at the given geometry.
func BuildEncodeArgs(p EncodeParams) []string {
	codec := p.Codec
	if codec == "" {
		codec = DefaultCodec
	}
	frameRate := p.FrameRate
	if frameRate == "" {
		frameRate = "25"
	}

	return []string{
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", PixelFormat,
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", frameRate,
		"-i", "-",
		"-c:v", codec,
		p.Output,
	}
}

// BuildProbeArgs returns ffprobe arguments that report the first video
// stream's geometry, frame rate, and frame count as JSON on stdout.
func BuildProbeArgs(input string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames,nb_read_frames",
		"-print_format", "json",
		input,
	}
}

// ParseFrameRate converts an ffprobe rate expression ("num/den" or a bare
// number) to frames per second. Returns 0 for unparseable input.
func ParseFrameRate(expr string) float64 {
	var num, den float64
	if n, err := fmt.Sscanf(expr, "%g/%g", &num, &den); err == nil && n == 2 {
		if den == 0 {
			return 0
		}
		return num / den
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		return v
	}
	return 0
}
