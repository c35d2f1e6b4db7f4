package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/framecloak/framecloak/internal/video"
)

// CreateProbeCmd creates the probe command.
func CreateProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe [video]",
		Short: "Print video stream metadata",
		Long:  `Probes the first video stream with ffprobe and prints the geometry the pipeline would process.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			meta, err := video.Probe(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, "probe failed:", err)
				os.Exit(1)
			}

			fmt.Printf("resolution:   %dx%d\n", meta.Width, meta.Height)
			fmt.Printf("frame rate:   %s\n", meta.FrameRate)
			if meta.TotalFrames > 0 {
				fmt.Printf("total frames: %d\n", meta.TotalFrames)
			} else {
				fmt.Printf("total frames: unknown\n")
			}
			fmt.Printf("frame bytes:  %d\n", meta.FrameBytes())
		},
	}
}
