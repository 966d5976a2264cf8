// Package recipe loads filter pipelines from YAML files.
//
// A recipe lists steps applied in order and, optionally, an animation:
//
//	name: deep-fried
//	steps:
//	  - op: sharpen
//	    level: 3
//	  - op: brightness
//	    amount: 40
//	  - op: convolve
//	    kernel:
//	      weights: [0, -1, 0, -1, 5, -1, 0, -1, 0]
//	      preserve_alpha: true
//	animate:
//	  kernel: sharpen
//	  frames: 8
//	  delay: 4
//
// "level" is the threshold cut-off for threshold, the sample percentage for
// pixelate, and the number of passes for convolution operations. Brightness
// and darkness require "amount" and threshold requires "level".
package recipe

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggfx"
)

// ErrInvalidRecipe is returned for recipes that parse but cannot be built.
var ErrInvalidRecipe = errors.New("recipe: invalid recipe")

// Recipe is the YAML form of a pipeline.
type Recipe struct {
	Name    string       `yaml:"name,omitempty"`
	Steps   []StepSpec   `yaml:"steps"`
	Animate *AnimateSpec `yaml:"animate,omitempty"`
}

// StepSpec is one step of a recipe.
type StepSpec struct {
	Op     string      `yaml:"op"`
	Amount *float64    `yaml:"amount,omitempty"`
	Level  *float64    `yaml:"level,omitempty"`
	Kernel *KernelSpec `yaml:"kernel,omitempty"`
}

// AnimateSpec describes a cumulative convolution animation.
type AnimateSpec struct {
	Kernel KernelSpec `yaml:"kernel"`
	Frames int        `yaml:"frames,omitempty"`
	Delay  int        `yaml:"delay,omitempty"`
}

// KernelSpec is either a preset name (a plain string in YAML) or explicit weights.
type KernelSpec struct {
	Preset        string    `yaml:"preset,omitempty"`
	Weights       []float64 `yaml:"weights,omitempty"`
	Divisor       float64   `yaml:"divisor,omitempty"`
	Bias          float64   `yaml:"bias,omitempty"`
	PreserveAlpha *bool     `yaml:"preserve_alpha,omitempty"`
}

// UnmarshalYAML accepts a scalar preset name or a mapping.
func (k *KernelSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		k.Preset = value.Value
		return nil
	}
	type plain KernelSpec
	return value.Decode((*plain)(k))
}

// Build converts k into a kernel.
func (k KernelSpec) Build() (ggfx.Kernel, error) {
	if k.Preset != "" {
		kernel, ok := ggfx.Preset(k.Preset)
		if !ok {
			return ggfx.Kernel{}, fmt.Errorf("%w: unknown kernel preset %q", ErrInvalidRecipe, k.Preset)
		}
		if k.PreserveAlpha != nil {
			kernel.PreserveAlpha = *k.PreserveAlpha
		}
		return kernel, nil
	}
	return ggfx.NewKernel(k.Weights,
		ggfx.WithDivisor(k.Divisor),
		ggfx.WithBias(k.Bias),
		ggfx.WithPreserveAlpha(lo.FromPtrOr(k.PreserveAlpha, true)),
	)
}

// Parse decodes a recipe from YAML.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("recipe: parse: %w", err)
	}
	if len(r.Steps) == 0 && r.Animate == nil {
		return nil, fmt.Errorf("%w: no steps and no animation", ErrInvalidRecipe)
	}
	return &r, nil
}

// Load reads and parses the recipe file at path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("recipe: read %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if r.Name == "" {
		r.Name = filepath.Base(path)
	}
	ggfx.Logger().Info("recipe: loaded", "name", r.Name, "steps", len(r.Steps), "animated", r.Animate != nil)
	return r, nil
}

// Pipeline builds the pipeline described by the recipe steps.
func (r *Recipe) Pipeline() (*ggfx.Pipeline, error) {
	pl := ggfx.NewPipeline()
	for i, s := range r.Steps {
		step, err := s.Step()
		if err != nil {
			return nil, fmt.Errorf("recipe: step %d: %w", i+1, err)
		}
		pl.Steps = append(pl.Steps, step)
	}
	return pl, nil
}

// Step converts s into a pipeline step, filling unset values with the
// operation defaults. Brightness and darkness need an amount and threshold
// needs a level; for convolution operations the level must be a whole number.
func (s StepSpec) Step() (ggfx.Step, error) {
	op, err := ggfx.ParseOp(s.Op)
	if err != nil {
		return ggfx.Step{}, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}

	switch {
	case (op == ggfx.OpBrightness || op == ggfx.OpDarkness) && s.Amount == nil:
		return ggfx.Step{}, fmt.Errorf("%w: %w: %s needs an amount", ErrInvalidRecipe, ggfx.ErrInvalidParameter, op)
	case op == ggfx.OpThreshold && s.Level == nil:
		return ggfx.Step{}, fmt.Errorf("%w: %w: threshold needs a level", ErrInvalidRecipe, ggfx.ErrInvalidParameter)
	}

	p := ggfx.DefaultParams(op)
	p.Amount = lo.FromPtrOr(s.Amount, p.Amount)
	if op.IsConvolution() {
		passes := lo.FromPtrOr(s.Level, float64(p.Intensity))
		if math.IsNaN(passes) || math.IsInf(passes, 0) || passes != math.Trunc(passes) {
			return ggfx.Step{}, fmt.Errorf("%w: %w: level %v is not a whole number of passes",
				ErrInvalidRecipe, ggfx.ErrInvalidParameter, passes)
		}
		p.Intensity = int(passes)
	} else {
		p.Level = lo.FromPtrOr(s.Level, p.Level)
	}

	if s.Kernel != nil {
		k, err := s.Kernel.Build()
		if err != nil {
			return ggfx.Step{}, err
		}
		p.Kernel = &k
	} else if op == ggfx.OpConvolve {
		return ggfx.Step{}, fmt.Errorf("%w: convolve needs a kernel", ErrInvalidRecipe)
	}
	return ggfx.Step{Op: op, Params: p}, nil
}

// Frames prepares the recipe animation over src using e (nil uses the default
// engine). It returns ErrInvalidRecipe when the recipe has no animate section.
func (r *Recipe) Frames(e *ggfx.Engine, src *ggfx.Pixmap) (*ggfx.Frames, error) {
	if r.Animate == nil {
		return nil, fmt.Errorf("%w: no animate section", ErrInvalidRecipe)
	}
	k, err := r.Animate.Kernel.Build()
	if err != nil {
		return nil, fmt.Errorf("recipe: animate: %w", err)
	}
	frames := r.Animate.Frames
	if frames == 0 {
		frames = ggfx.DefaultTriggerFrames
	}
	if e == nil {
		return ggfx.Animate(src, k, frames)
	}
	return e.Animate(src, k, frames)
}
