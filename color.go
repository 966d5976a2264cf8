package ggfx

import (
	"fmt"
	"math"
	"time"
)

// BT.601 luma weights, shared by Greyscale and Threshold.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// luma returns round(0.299r + 0.587g + 0.114b).
func luma(r, g, b uint8) uint8 {
	return clampByte(lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b))
}

// clampByte rounds v to the nearest integer and clamps it to [0, 255].
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// pointFunc maps the pixels of one run of rows. dst and src have equal length.
type pointFunc func(dst, src []uint8)

// pointOp applies fn to every pixel of src and returns the result in a new pixmap.
func (e *Engine) pointOp(src *Pixmap, op Op, fn pointFunc) (*Pixmap, error) {
	if err := src.validate(); err != nil {
		return nil, stageErr(op.String(), op, err)
	}

	start := time.Now()
	dst := &Pixmap{width: src.width, height: src.height, data: make([]uint8, len(src.data))}
	stride := src.width * 4
	e.forRows(src.width, src.height, func(y0, y1 int) {
		fn(dst.data[y0*stride:y1*stride], src.data[y0*stride:y1*stride])
	})

	e.log().Debug("ggfx: point op", "op", op, "width", src.width, "height", src.height,
		"elapsed", time.Since(start))
	return dst, nil
}

// Greyscale sets r=g=b to the BT.601 luma of each pixel. Alpha is unchanged.
func (e *Engine) Greyscale(src *Pixmap) (*Pixmap, error) {
	return e.pointOp(src, OpGreyscale, func(dst, src []uint8) {
		for i := 0; i < len(src); i += 4 {
			y := luma(src[i], src[i+1], src[i+2])
			dst[i], dst[i+1], dst[i+2], dst[i+3] = y, y, y, src[i+3]
		}
	})
}

// Invert replaces each color channel c with 255-c. Alpha is unchanged.
func (e *Engine) Invert(src *Pixmap) (*Pixmap, error) {
	return e.pointOp(src, OpInvert, func(dst, src []uint8) {
		for i := 0; i < len(src); i += 4 {
			dst[i] = 255 - src[i]
			dst[i+1] = 255 - src[i+1]
			dst[i+2] = 255 - src[i+2]
			dst[i+3] = src[i+3]
		}
	})
}

// Sepia applies the standard sepia tone matrix. Alpha is unchanged.
func (e *Engine) Sepia(src *Pixmap) (*Pixmap, error) {
	return e.pointOp(src, OpSepia, func(dst, src []uint8) {
		for i := 0; i < len(src); i += 4 {
			r, g, b := float64(src[i]), float64(src[i+1]), float64(src[i+2])
			dst[i] = clampByte(0.393*r + 0.769*g + 0.189*b)
			dst[i+1] = clampByte(0.349*r + 0.686*g + 0.168*b)
			dst[i+2] = clampByte(0.272*r + 0.534*g + 0.131*b)
			dst[i+3] = src[i+3]
		}
	})
}

// Brightness adds amount to every color channel, clamping to [0, 255].
// A negative amount darkens. Fails with ErrInvalidParameter when amount is
// NaN or infinite.
func (e *Engine) Brightness(src *Pixmap, amount float64) (*Pixmap, error) {
	return e.shift(src, OpBrightness, amount, amount)
}

// Darkness subtracts amount from every color channel, clamping to [0, 255].
func (e *Engine) Darkness(src *Pixmap, amount float64) (*Pixmap, error) {
	return e.shift(src, OpDarkness, amount, -amount)
}

func (e *Engine) shift(src *Pixmap, op Op, amount, delta float64) (*Pixmap, error) {
	if !finite(amount) {
		return nil, stageErr(op.String(), op, fmt.Errorf("%w: amount %v is not a finite number", ErrInvalidParameter, amount))
	}

	// Channels only take 256 values, so precompute the mapping.
	var lut [256]uint8
	for v := range lut {
		lut[v] = clampByte(float64(v) + delta)
	}

	return e.pointOp(src, op, func(dst, src []uint8) {
		for i := 0; i < len(src); i += 4 {
			dst[i] = lut[src[i]]
			dst[i+1] = lut[src[i+1]]
			dst[i+2] = lut[src[i+2]]
			dst[i+3] = src[i+3]
		}
	})
}

// Threshold sets each pixel to white when its luma is at least level and to
// black otherwise. Alpha is unchanged. A level outside [0, 255] is clamped;
// NaN or infinite levels fail with ErrInvalidParameter.
func (e *Engine) Threshold(src *Pixmap, level float64) (*Pixmap, error) {
	if !finite(level) {
		return nil, stageErr(OpThreshold.String(), OpThreshold,
			fmt.Errorf("%w: level %v is not a finite number", ErrInvalidParameter, level))
	}
	if level < 0 || level > 255 {
		clamped := math.Min(math.Max(level, 0), 255)
		e.log().Warn("ggfx: threshold level clamped", "level", level, "clamped", clamped)
		level = clamped
	}

	return e.pointOp(src, OpThreshold, func(dst, src []uint8) {
		for i := 0; i < len(src); i += 4 {
			var v uint8
			if float64(luma(src[i], src[i+1], src[i+2])) >= level {
				v = 255
			}
			dst[i], dst[i+1], dst[i+2], dst[i+3] = v, v, v, src[i+3]
		}
	})
}

// Pixelate averages square blocks of pixels. percent (1..100) is the size of
// the sampled image relative to the original, so smaller values give larger
// blocks: the block edge is round(100/percent) pixels. Values outside 1..100
// fall back to 100, which leaves the image unchanged.
func (e *Engine) Pixelate(src *Pixmap, percent float64) (*Pixmap, error) {
	if math.IsNaN(percent) || percent < 1 || percent > 100 {
		e.log().Warn("ggfx: pixelate percent out of range", "percent", percent)
		percent = 100
	}
	if err := src.validate(); err != nil {
		return nil, stageErr(OpPixelate.String(), OpPixelate, err)
	}

	block := max(int(math.Round(100/percent)), 1)
	w, h := src.width, src.height
	dst := &Pixmap{width: w, height: h, data: make([]uint8, len(src.data))}
	rows := (h + block - 1) / block

	e.forRows(w, rows, func(r0, r1 int) {
		for by := r0 * block; by < min(r1*block, h); by += block {
			yEnd := min(by+block, h)
			for bx := 0; bx < w; bx += block {
				xEnd := min(bx+block, w)
				var sum [4]int
				for y := by; y < yEnd; y++ {
					for x := bx; x < xEnd; x++ {
						o := (y*w + x) * 4
						sum[0] += int(src.data[o])
						sum[1] += int(src.data[o+1])
						sum[2] += int(src.data[o+2])
						sum[3] += int(src.data[o+3])
					}
				}
				n := (yEnd - by) * (xEnd - bx)
				var avg [4]uint8
				for c := range avg {
					avg[c] = uint8((sum[c] + n/2) / n)
				}
				for y := by; y < yEnd; y++ {
					for x := bx; x < xEnd; x++ {
						copy(dst.data[(y*w+x)*4:], avg[:])
					}
				}
			}
		}
	})
	return dst, nil
}

// Greyscale converts src using the default engine. See Engine.Greyscale.
func Greyscale(src *Pixmap) (*Pixmap, error) { return defaultEngine().Greyscale(src) }

// Invert inverts src using the default engine. See Engine.Invert.
func Invert(src *Pixmap) (*Pixmap, error) { return defaultEngine().Invert(src) }

// Sepia tones src using the default engine. See Engine.Sepia.
func Sepia(src *Pixmap) (*Pixmap, error) { return defaultEngine().Sepia(src) }

// Brightness brightens src using the default engine. See Engine.Brightness.
func Brightness(src *Pixmap, amount float64) (*Pixmap, error) {
	return defaultEngine().Brightness(src, amount)
}

// Darkness darkens src using the default engine. See Engine.Darkness.
func Darkness(src *Pixmap, amount float64) (*Pixmap, error) {
	return defaultEngine().Darkness(src, amount)
}

// Threshold binarizes src using the default engine. See Engine.Threshold.
func Threshold(src *Pixmap, level float64) (*Pixmap, error) {
	return defaultEngine().Threshold(src, level)
}

// Pixelate pixelates src using the default engine. See Engine.Pixelate.
func Pixelate(src *Pixmap, percent float64) (*Pixmap, error) {
	return defaultEngine().Pixelate(src, percent)
}
