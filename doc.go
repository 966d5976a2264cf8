// Package ggfx provides the pixel-level image filters behind chat-bot meme
// stickers: greyscale, invert, sepia, brightness and darkness, threshold,
// pixelate, and 3×3 convolution (sharpen, burn, edge detect, blur), plus the
// "trigger" animation built from repeated convolution.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ggfx"
//	    "github.com/gogpu/ggfx/codec"
//	)
//
//	pm, err := codec.Load(ctx, "avatar.png")
//	if err != nil {
//	    return err
//	}
//	out, err := ggfx.SharpenImage(pm, 2)
//	if err != nil {
//	    return err
//	}
//	data, err := codec.EncodeBytes(out, codec.FormatPNG)
//
// # Pixel Buffers
//
// A Pixmap is a width×height grid of non-premultiplied RGBA bytes. Every
// filter reads its source and returns a freshly allocated Pixmap; sources
// are never modified.
//
// # Color Transforms
//
// Greyscale and Threshold share one luma formula (BT.601):
//
//	y = round(0.299·r + 0.587·g + 0.114·b)
//
// All color transforms leave alpha untouched.
//
// # Convolution
//
// Convolution uses clamped border extension: neighbors outside the image
// reuse the nearest edge pixel. Intensity levels are applied as repeated
// passes of the same kernel, never by scaling the kernel.
//
// # Errors
//
// Structural problems (empty buffers, malformed kernels, non-finite numbers)
// fail with ErrInvalidBuffer, ErrInvalidKernel or ErrInvalidParameter,
// wrapped in a *StageError naming the failing stage. Soft tuning values such
// as a threshold above 255 are clamped instead.
//
// # Concurrency
//
// Rows of a pass are split across an Engine's worker pool; passes and
// animation frames run strictly in sequence. Output does not depend on the
// number of workers.
package ggfx

// Version is the current version of the library.
const Version = "0.1.0"
