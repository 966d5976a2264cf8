package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggfx"
	"github.com/gogpu/ggfx/codec"
)

var animateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Write an animated GIF of repeated convolution (the trigger effect)",
	RunE:  runAnimate,
}

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Write the triggered animation (compounding sharpen) as a GIF",
	RunE:  runAnimate,
}

func init() {
	for _, c := range []*cobra.Command{animateCmd, triggerCmd} {
		c.Flags().StringP("input", "i", "", "Input image path or URL")
		c.Flags().StringP("output", "o", "", "Output GIF path")
		c.Flags().Int("frames", ggfx.DefaultTriggerFrames, "Number of frames")
		c.Flags().Int("delay", 0, "Frame delay in 100ths of a second (0 = ggfx.yaml or default)")
		_ = c.MarkFlagRequired("input")
		_ = c.MarkFlagRequired("output")
		rootCmd.AddCommand(c)
	}
	animateCmd.Flags().String("kernel", "sharpen", "Kernel preset (edges, blur, sharpen, burn)")
}

func runAnimate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	frameCount, _ := cmd.Flags().GetInt("frames")
	delay, _ := cmd.Flags().GetInt("delay")

	kernel := ggfx.Sharpen()
	if cmd.Flags().Lookup("kernel") != nil {
		name, _ := cmd.Flags().GetString("kernel")
		k, ok := ggfx.Preset(name)
		if !ok {
			return fmt.Errorf("unknown kernel preset %q (have %v)", name, ggfx.PresetNames())
		}
		kernel = k
	}

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	src, err := codec.Load(cmd.Context(), inputPath, e.decode...)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	frames, err := e.engine.Animate(src, kernel, frameCount)
	if err != nil {
		return err
	}
	return writeFrames(cmd, outputPath, frames, e.frameDelay(delay))
}

// writeFrames encodes frames into the GIF file at path.
func writeFrames(cmd *cobra.Command, path string, frames *ggfx.Frames, delay int) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := codec.EncodeFrames(cmd.Context(), f, frames, delay); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	return f.Close()
}
