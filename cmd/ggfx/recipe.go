package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggfx/codec"
	"github.com/gogpu/ggfx/recipe"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe <file.yaml>",
	Short: "Run the steps (and animation) of a YAML recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipe,
}

func init() {
	recipeCmd.Flags().StringP("input", "i", "", "Input image path or URL")
	recipeCmd.Flags().StringP("output", "o", "", "Output path (a GIF when the recipe animates)")
	_ = recipeCmd.MarkFlagRequired("input")
	_ = recipeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(recipeCmd)
}

func runRecipe(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	r, err := recipe.Load(args[0])
	if err != nil {
		return err
	}
	pl, err := r.Pipeline()
	if err != nil {
		return err
	}

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	pl.Engine = e.engine

	src, err := codec.Load(cmd.Context(), inputPath, e.decode...)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	out, err := pl.Run(src)
	if err != nil {
		return fmt.Errorf("recipe %s: %w", r.Name, err)
	}

	if r.Animate == nil {
		if err := e.save(outputPath, out); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	frames, err := r.Frames(e.engine, out)
	if err != nil {
		return fmt.Errorf("recipe %s: %w", r.Name, err)
	}
	return writeFrames(cmd, outputPath, frames, e.frameDelay(r.Animate.Delay))
}
