package ggfx

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
)

// Kernel is a square convolution matrix.
//
// Weights are stored row-major: Weights[j*Dim+i] multiplies the neighbor at
// horizontal offset i-Dim/2 and vertical offset j-Dim/2.
//
// A zero Divisor means "derive from the weights": their sum, or 1 when the
// sum is 0. The zero value of PreserveAlpha convolves alpha like any other
// channel; NewKernel and the presets set it to true.
type Kernel struct {
	Weights       []float64
	Dim           int
	Divisor       float64
	Bias          float64
	PreserveAlpha bool
}

// KernelOption configures a Kernel built by NewKernel.
type KernelOption func(*Kernel)

// WithDivisor overrides the divisor. Zero keeps the derived default.
func WithDivisor(d float64) KernelOption {
	return func(k *Kernel) {
		if d != 0 {
			k.Divisor = d
		}
	}
}

// WithBias sets the value added to every channel after division.
func WithBias(b float64) KernelOption {
	return func(k *Kernel) {
		k.Bias = b
	}
}

// WithPreserveAlpha selects whether alpha is copied from the source pixel (true)
// or convolved like the color channels (false).
func WithPreserveAlpha(preserve bool) KernelOption {
	return func(k *Kernel) {
		k.PreserveAlpha = preserve
	}
}

// NewKernel builds a kernel from a flat list of weights whose length is a
// perfect odd square (9, 25, 49, ...). The weights are copied.
//
// Defaults: Divisor = sum of weights (1 if the sum is 0), Bias = 0,
// PreserveAlpha = true.
func NewKernel(weights []float64, opts ...KernelOption) (Kernel, error) {
	dim := int(math.Round(math.Sqrt(float64(len(weights)))))
	k := Kernel{
		Weights:       slices.Clone(weights),
		Dim:           dim,
		PreserveAlpha: true,
	}
	k.Divisor = k.defaultDivisor()
	for _, opt := range opts {
		opt(&k)
	}
	if err := k.Validate(); err != nil {
		return Kernel{}, err
	}
	return k, nil
}

// Validate checks the structural invariants of the kernel.
func (k Kernel) Validate() error {
	switch {
	case k.Dim < 3:
		return fmt.Errorf("%w: dim %d is less than 3", ErrInvalidKernel, k.Dim)
	case k.Dim%2 == 0:
		return fmt.Errorf("%w: dim %d is even", ErrInvalidKernel, k.Dim)
	case len(k.Weights) != k.Dim*k.Dim:
		return fmt.Errorf("%w: %d weights for dim %d, want %d",
			ErrInvalidKernel, len(k.Weights), k.Dim, k.Dim*k.Dim)
	case !finite(k.Divisor) || !finite(k.Bias):
		return fmt.Errorf("%w: non-finite divisor or bias", ErrInvalidKernel)
	}
	for i, w := range k.Weights {
		if !finite(w) {
			return fmt.Errorf("%w: weight %d is not finite", ErrInvalidKernel, i)
		}
	}
	return nil
}

// Sum returns the sum of the weights.
func (k Kernel) Sum() float64 {
	var s float64
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// EffectiveDivisor returns the divisor used during convolution.
func (k Kernel) EffectiveDivisor() float64 {
	if k.Divisor != 0 {
		return k.Divisor
	}
	return k.defaultDivisor()
}

func (k Kernel) defaultDivisor() float64 {
	if s := k.Sum(); s != 0 {
		return s
	}
	return 1
}

// Kernel presets. Each call returns a fresh copy.

// Edges returns the Laplacian edge-detection kernel [0,-1,0,-1,4,-1,0,-1,0].
// Its weights sum to 0, so the divisor is 1.
func Edges() Kernel {
	return Kernel{
		Weights:       []float64{0, -1, 0, -1, 4, -1, 0, -1, 0},
		Dim:           3,
		Divisor:       1,
		PreserveAlpha: true,
	}
}

// Blur returns the 3×3 box blur kernel, nine weights of 1/9.
func Blur() Kernel {
	k := Kernel{
		Weights:       slices.Repeat([]float64{1.0 / 9}, 9),
		Dim:           3,
		PreserveAlpha: true,
	}
	k.Divisor = k.defaultDivisor()
	return k
}

// Sharpen returns the sharpen kernel [0,-1,0,-1,5,-1,0,-1,0].
func Sharpen() Kernel {
	return Kernel{
		Weights:       []float64{0, -1, 0, -1, 5, -1, 0, -1, 0},
		Dim:           3,
		Divisor:       1,
		PreserveAlpha: true,
	}
}

// Burn returns the burn kernel, nine weights of 1/11. The weights are applied
// as-is (divisor 1), so each pass scales a flat region by 9/11 and darkens it.
func Burn() Kernel {
	return Kernel{
		Weights:       slices.Repeat([]float64{1.0 / 11}, 9),
		Dim:           3,
		Divisor:       1,
		PreserveAlpha: true,
	}
}

var presets = map[string]func() Kernel{
	"edges":   Edges,
	"blur":    Blur,
	"sharpen": Sharpen,
	"burn":    Burn,
}

// Preset returns the named kernel preset ("edges", "blur", "sharpen", "burn").
func Preset(name string) (Kernel, bool) {
	fn, ok := presets[foldName(name)]
	if !ok {
		return Kernel{}, false
	}
	return fn(), true
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := lo.Keys(presets)
	slices.Sort(names)
	return names
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
