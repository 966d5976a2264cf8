package ggfx

import "time"

// Convolve applies one pass of kernel k to src and returns a new pixmap.
//
// Neighbors outside the image reuse the nearest edge pixel (clamped border
// extension). Each color channel becomes
//
//	clamp(round(Σ weight·neighbor / divisor + bias), 0, 255)
//
// and alpha is either copied from the source pixel or convolved the same way,
// depending on k.PreserveAlpha.
func (e *Engine) Convolve(src *Pixmap, k Kernel) (*Pixmap, error) {
	return e.ConvolveN(src, k, 1)
}

// ConvolveN applies k to src level times in sequence; every pass reads the
// complete output of the previous one. The kernel itself is never scaled.
// A level below 1 is clamped to 1.
func (e *Engine) ConvolveN(src *Pixmap, k Kernel, level int) (*Pixmap, error) {
	return e.convolveN(src, k, level, OpConvolve)
}

func (e *Engine) convolveN(src *Pixmap, k Kernel, level int, op Op) (*Pixmap, error) {
	stage := op.String()
	if err := src.validate(); err != nil {
		return nil, stageErr(stage, op, err)
	}
	if err := k.Validate(); err != nil {
		return nil, stageErr(stage, op, err)
	}
	if level < 1 {
		e.log().Warn("ggfx: convolution level clamped", "op", op, "level", level)
		level = 1
	}

	start := time.Now()
	w, h := src.width, src.height
	n := len(src.data)
	cur := src.data
	for pass := 1; pass <= level; pass++ {
		var out []uint8
		if pass == level {
			out = make([]uint8, n)
		} else {
			out = e.scratch.Get(n)
		}

		in := cur
		e.forRows(w, h, func(y0, y1 int) {
			convolveRows(out, in, w, h, &k, y0, y1)
		})

		// Intermediate passes are scratch buffers; the source never is.
		if pass > 1 {
			e.scratch.Put(cur)
		}
		cur = out
	}

	e.log().Debug("ggfx: convolve", "op", op, "dim", k.Dim, "passes", level,
		"width", w, "height", h, "elapsed", time.Since(start))
	return &Pixmap{width: w, height: h, data: cur}, nil
}

// convolveRows computes output rows [y0, y1) of one pass.
func convolveRows(dst, src []uint8, w, h int, k *Kernel, y0, y1 int) {
	dim := k.Dim
	half := dim / 2
	div := k.EffectiveDivisor()
	bias := k.Bias
	weights := k.Weights

	for y := y0; y < y1; y++ {
		for x := range w {
			var r, g, b, a float64
			for j := range dim {
				row := clampInt(y+j-half, 0, h-1) * w
				for i := range dim {
					wt := weights[j*dim+i]
					if wt == 0 {
						continue
					}
					o := (row + clampInt(x+i-half, 0, w-1)) * 4
					r += wt * float64(src[o])
					g += wt * float64(src[o+1])
					b += wt * float64(src[o+2])
					a += wt * float64(src[o+3])
				}
			}

			d := (y*w + x) * 4
			dst[d] = clampByte(r/div + bias)
			dst[d+1] = clampByte(g/div + bias)
			dst[d+2] = clampByte(b/div + bias)
			if k.PreserveAlpha {
				dst[d+3] = src[d+3]
			} else {
				dst[d+3] = clampByte(a/div + bias)
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sharpen applies the Sharpen preset level times (compounding, not scaling).
func (e *Engine) Sharpen(src *Pixmap, level int) (*Pixmap, error) {
	return e.convolveN(src, Sharpen(), level, OpSharpen)
}

// Burn applies the Burn preset level times (compounding, not scaling).
func (e *Engine) Burn(src *Pixmap, level int) (*Pixmap, error) {
	return e.convolveN(src, Burn(), level, OpBurn)
}

// EdgeDetect applies the Edges preset once.
func (e *Engine) EdgeDetect(src *Pixmap) (*Pixmap, error) {
	return e.convolveN(src, Edges(), 1, OpEdges)
}

// BlurImage applies the Blur preset level times.
func (e *Engine) BlurImage(src *Pixmap, level int) (*Pixmap, error) {
	return e.convolveN(src, Blur(), level, OpBlur)
}

// Convolve applies k once using the default engine. See Engine.Convolve.
func Convolve(src *Pixmap, k Kernel) (*Pixmap, error) {
	return defaultEngine().Convolve(src, k)
}

// ConvolveN applies k level times using the default engine. See Engine.ConvolveN.
func ConvolveN(src *Pixmap, k Kernel, level int) (*Pixmap, error) {
	return defaultEngine().ConvolveN(src, k, level)
}

// SharpenImage sharpens src using the default engine. See Engine.Sharpen.
func SharpenImage(src *Pixmap, level int) (*Pixmap, error) {
	return defaultEngine().Sharpen(src, level)
}

// BurnImage burns src using the default engine. See Engine.Burn.
func BurnImage(src *Pixmap, level int) (*Pixmap, error) {
	return defaultEngine().Burn(src, level)
}

// EdgeDetect detects edges in src using the default engine. See Engine.EdgeDetect.
func EdgeDetect(src *Pixmap) (*Pixmap, error) {
	return defaultEngine().EdgeDetect(src)
}

// BlurImage blurs src using the default engine. See Engine.BlurImage.
func BlurImage(src *Pixmap, level int) (*Pixmap, error) {
	return defaultEngine().BlurImage(src, level)
}
