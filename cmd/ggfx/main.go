// Command ggfx applies ggfx filters to image files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggfx"
	"github.com/gogpu/ggfx/codec"
	"github.com/gogpu/ggfx/recipe"
)

var rootCmd = &cobra.Command{
	Use:           "ggfx",
	Short:         "Apply pixel filters and trigger animations to images",
	Version:       ggfx.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		ggfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Int("workers", 0, "Worker goroutines per pass (0 = ggfx.yaml or GOMAXPROCS)")
	rootCmd.PersistentFlags().Int("max-size", 0, "Downscale inputs whose longer side exceeds this (0 = ggfx.yaml or off)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the per-invocation state shared by subcommands.
type env struct {
	engine   *ggfx.Engine
	settings *recipe.Settings
	decode   []codec.Option
	encode   []codec.Option
}

// newEnv merges ggfx.yaml from the working directory with command-line flags.
// Flags win over the file.
func newEnv(cmd *cobra.Command) (*env, error) {
	settings, err := recipe.LoadOptional(".")
	if err != nil {
		return nil, err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = settings.Workers
	}
	maxSize, _ := cmd.Flags().GetInt("max-size")
	if maxSize == 0 {
		maxSize = settings.MaxSize
	}

	var engineOpts []ggfx.EngineOption
	if workers > 0 {
		engineOpts = append(engineOpts, ggfx.WithWorkers(workers))
	}

	e := &env{
		engine:   ggfx.NewEngine(engineOpts...),
		settings: settings,
		decode:   []codec.Option{codec.WithMaxSize(maxSize)},
	}
	if settings.JPEGQuality > 0 {
		e.encode = append(e.encode, codec.WithJPEGQuality(settings.JPEGQuality))
	}
	return e, nil
}

func (e *env) close() {
	e.engine.Close()
}

// frameDelay returns the delay flag, falling back to ggfx.yaml.
func (e *env) frameDelay(flag int) int {
	if flag > 0 {
		return flag
	}
	return e.settings.FrameDelay
}

// save writes pm to path. The format comes from the extension, or from
// ggfx.yaml when the extension is not an image format.
func (e *env) save(path string, pm *ggfx.Pixmap) error {
	format, err := codec.FormatFromPath(path)
	if err != nil {
		if e.settings.Format == "" {
			return err
		}
		if format, err = codec.ParseFormat(e.settings.Format); err != nil {
			return err
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := codec.Encode(f, pm, format, e.encode...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
