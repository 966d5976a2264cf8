package ggfx

import (
	"fmt"
	"iter"
	"slices"
)

// DefaultTriggerFrames is the frame count of the trigger effect when the
// caller does not choose one.
const DefaultTriggerFrames = 8

// Frames is a lazy, finite sequence of animation frames. Frame i is the
// source convolved i+1 times with the kernel, so the effect grows with every
// frame.
//
// Frames owns private copies of the source and kernel. It holds no mutable
// state, so any number of goroutines may iterate it at the same time, and
// iteration can be restarted.
type Frames struct {
	engine *Engine
	src    *Pixmap
	kernel Kernel
	count  int
}

// Animate prepares frameCount frames of cumulative convolution of src by k.
// Nothing is computed until frames are requested.
func (e *Engine) Animate(src *Pixmap, k Kernel, frameCount int) (*Frames, error) {
	if err := src.validate(); err != nil {
		return nil, stageErr("animate", OpConvolve, err)
	}
	if err := k.Validate(); err != nil {
		return nil, stageErr("animate", OpConvolve, err)
	}
	if frameCount < 1 {
		return nil, stageErr("animate", OpConvolve,
			fmt.Errorf("%w: frame count %d must be at least 1", ErrInvalidParameter, frameCount))
	}

	k.Weights = slices.Clone(k.Weights)
	return &Frames{
		engine: e,
		src:    src.Clone(),
		kernel: k,
		count:  frameCount,
	}, nil
}

// Trigger prepares the "triggered" animation: frames of compounding
// sharpening. A frame count below 1 uses DefaultTriggerFrames.
func (e *Engine) Trigger(src *Pixmap, frames int) (*Frames, error) {
	if frames < 1 {
		frames = DefaultTriggerFrames
	}
	return e.Animate(src, Sharpen(), frames)
}

// Len returns the number of frames.
func (f *Frames) Len() int {
	return f.count
}

// At computes frame i (0-based) from the source, independently of any other
// frame that was computed before.
func (f *Frames) At(i int) (*Pixmap, error) {
	if i < 0 || i >= f.count {
		return nil, stageErr(fmt.Sprintf("frame %d", i), OpConvolve,
			fmt.Errorf("%w: frame index %d out of range [0, %d)", ErrInvalidParameter, i, f.count))
	}
	out, err := f.engine.convolveN(f.src, f.kernel, i+1, OpConvolve)
	if err != nil {
		return nil, stageErr(fmt.Sprintf("frame %d", i), OpConvolve, err)
	}
	return out, nil
}

// All yields the frames in order, each computed from the previous one with
// a single pass. Breaking out of the loop stops the work. After an error
// the sequence yields (nil, err) once and ends. Each yielded frame belongs to
// the caller and may be modified without affecting later frames.
//
//	for frame, err := range frames.All() {
//	    if err != nil {
//	        return err
//	    }
//	    sink(frame)
//	}
func (f *Frames) All() iter.Seq2[*Pixmap, error] {
	return func(yield func(*Pixmap, error) bool) {
		cur := f.src
		for i := range f.count {
			next, err := f.engine.convolveN(cur, f.kernel, 1, OpConvolve)
			if err != nil {
				yield(nil, stageErr(fmt.Sprintf("frame %d", i), OpConvolve, err))
				return
			}
			f.engine.log().Debug("ggfx: frame", "index", i, "of", f.count)
			cur = next
			if !yield(next.Clone(), nil) {
				return
			}
		}
	}
}

// Collect computes every frame. On failure no frames are returned.
func (f *Frames) Collect() ([]*Pixmap, error) {
	out := make([]*Pixmap, 0, f.count)
	for frame, err := range f.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, frame)
	}
	return out, nil
}

// Animate prepares an animation using the default engine. See Engine.Animate.
func Animate(src *Pixmap, k Kernel, frameCount int) (*Frames, error) {
	return defaultEngine().Animate(src, k, frameCount)
}

// Trigger prepares the trigger animation using the default engine.
// See Engine.Trigger.
func Trigger(src *Pixmap, frames int) (*Frames, error) {
	return defaultEngine().Trigger(src, frames)
}
