package codec

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ggfx"
)

// DefaultFrameDelay is the delay between animation frames in 100ths of a second.
const DefaultFrameDelay = 4

// EncodeAnimation writes frames as a looping animated GIF. delay is in 100ths
// of a second; values below 1 use DefaultFrameDelay. Frames are palettized
// concurrently and written in order.
func EncodeAnimation(ctx context.Context, w io.Writer, frames []*ggfx.Pixmap, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrEncode)
	}
	for i, f := range frames {
		if f == nil || f.Width() <= 0 || f.Height() <= 0 {
			return fmt.Errorf("%w: frame %d: %w", ErrEncode, i, ggfx.ErrInvalidBuffer)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	paletted := make([]*image.Paletted, len(frames))
	for i, f := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			paletted[i] = palettize(f.ToImage())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return writeGIF(w, paletted, delay)
}

// EncodeFrames renders a lazy frame sequence and writes it as an animated GIF.
// Frames are produced one after another while earlier ones are palettized in
// the background. Cancelling ctx stops requesting further frames.
func EncodeFrames(ctx context.Context, w io.Writer, frames *ggfx.Frames, delay int) error {
	if frames == nil || frames.Len() == 0 {
		return fmt.Errorf("%w: no frames", ErrEncode)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0) + 1)

	paletted := make([]*image.Paletted, frames.Len())
	i := 0
	for frame, err := range frames.All() {
		if err != nil {
			_ = g.Wait()
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
		if err := gctx.Err(); err != nil {
			break
		}
		idx := i
		g.Go(func() error {
			paletted[idx] = palettize(frame.ToImage())
			return nil
		})
		i++
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	ggfx.Logger().Debug("codec: frames palettized", "frames", len(paletted))
	return writeGIF(w, paletted, delay)
}

func writeGIF(w io.Writer, paletted []*image.Paletted, delay int) error {
	if delay < 1 {
		delay = DefaultFrameDelay
	}
	anim := &gif.GIF{
		Image:     paletted,
		Delay:     make([]int, len(paletted)),
		LoopCount: 0,
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("%w: gif: %w", ErrEncode, err)
	}
	ggfx.Logger().Info("codec: animation written", "frames", len(paletted), "delay", delay)
	return nil
}
