package ggfx

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// Op names a single-pass filter operation.
type Op uint8

// Filter operations.
const (
	// OpNone is the zero Op; Apply rejects it.
	OpNone Op = iota

	OpGreyscale
	OpInvert
	OpSepia
	OpBrightness
	OpDarkness
	OpThreshold
	OpSharpen
	OpBurn
	OpEdges
	OpBlur
	OpConvolve
	OpPixelate

	// opCount is the number of operations (for internal use).
	opCount
)

var opNames = [opCount]string{
	OpNone:       "none",
	OpGreyscale:  "greyscale",
	OpInvert:     "invert",
	OpSepia:      "sepia",
	OpBrightness: "brightness",
	OpDarkness:   "darkness",
	OpThreshold:  "threshold",
	OpSharpen:    "sharpen",
	OpBurn:       "burn",
	OpEdges:      "edges",
	OpBlur:       "blur",
	OpConvolve:   "convolve",
	OpPixelate:   "pixelate",
}

// opAliases maps alternative spellings to operations.
var opAliases = map[string]Op{
	"grayscale": OpGreyscale,
	"edge":      OpEdges,
	"convolute": OpConvolve,
}

// String returns the canonical lower-case name of the operation.
func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// IsConvolution reports whether op runs through the convolution engine.
func (op Op) IsConvolution() bool {
	switch op {
	case OpSharpen, OpBurn, OpEdges, OpBlur, OpConvolve:
		return true
	default:
		return false
	}
}

// foldName normalizes a user-supplied name for lookup. A Caser keeps state,
// so each call gets its own.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ParseOp looks up an operation by name, ignoring case.
// "grayscale", "edge" and "convolute" are accepted as aliases.
func ParseOp(name string) (Op, error) {
	key := foldName(name)
	if op, ok := opAliases[key]; ok {
		return op, nil
	}
	for op := OpGreyscale; op < opCount; op++ {
		if opNames[op] == key {
			return op, nil
		}
	}
	return OpNone, fmt.Errorf("%w: unknown operation %q", ErrInvalidParameter, name)
}

// Ops returns the canonical names of all operations, sorted.
func Ops() []string {
	names := lo.Filter(opNames[:], func(name string, i int) bool {
		return Op(i) != OpNone
	})
	slices.Sort(names)
	return names
}

// Params carries the scalar knobs of an operation. Fields an operation does
// not use are ignored.
type Params struct {
	// Amount is the brightness/darkness delta, typically -255..255.
	Amount float64

	// Level is the threshold cut-off (0..255, clamped) or the pixelate
	// percentage (1..100).
	Level float64

	// Intensity is the number of convolution passes (at least 1, clamped).
	Intensity int

	// Kernel is required by OpConvolve and overrides the preset of the
	// other convolution operations when set.
	Kernel *Kernel
}

// DefaultParams returns the documented defaults for op:
// Amount 0, Level 128 (threshold) or 5 (pixelate), Intensity 1, no Kernel.
func DefaultParams(op Op) Params {
	p := Params{Intensity: 1}
	switch op {
	case OpThreshold:
		p.Level = 128
	case OpPixelate:
		p.Level = 5
	}
	return p
}

// Apply runs a single operation. It is deterministic: identical inputs give
// identical outputs.
func (e *Engine) Apply(src *Pixmap, op Op, p Params) (*Pixmap, error) {
	switch op {
	case OpGreyscale:
		return e.Greyscale(src)
	case OpInvert:
		return e.Invert(src)
	case OpSepia:
		return e.Sepia(src)
	case OpBrightness:
		return e.Brightness(src, p.Amount)
	case OpDarkness:
		return e.Darkness(src, p.Amount)
	case OpThreshold:
		return e.Threshold(src, p.Level)
	case OpPixelate:
		return e.Pixelate(src, p.Level)
	case OpSharpen, OpBurn, OpEdges, OpBlur, OpConvolve:
		k, err := kernelFor(op, p)
		if err != nil {
			return nil, stageErr(op.String(), op, err)
		}
		return e.convolveN(src, k, p.Intensity, op)
	default:
		return nil, stageErr("apply", op, fmt.Errorf("%w: unsupported operation %s", ErrInvalidParameter, op))
	}
}

// kernelFor picks the kernel of a convolution operation.
func kernelFor(op Op, p Params) (Kernel, error) {
	if p.Kernel != nil {
		return *p.Kernel, nil
	}
	switch op {
	case OpSharpen:
		return Sharpen(), nil
	case OpBurn:
		return Burn(), nil
	case OpEdges:
		return Edges(), nil
	case OpBlur:
		return Blur(), nil
	default:
		return Kernel{}, fmt.Errorf("%w: %s requires a kernel", ErrInvalidKernel, op)
	}
}

// Apply runs a single operation using the default engine. See Engine.Apply.
func Apply(src *Pixmap, op Op, p Params) (*Pixmap, error) {
	return defaultEngine().Apply(src, op, p)
}

// Step is one operation of a Pipeline.
type Step struct {
	Op     Op
	Params Params
}

// Pipeline applies steps in order, each consuming the previous output.
type Pipeline struct {
	Steps  []Step
	Engine *Engine // nil uses the default engine
}

// NewPipeline creates a pipeline from steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps}
}

// Then appends a step and returns the pipeline for chaining.
func (pl *Pipeline) Then(op Op, p Params) *Pipeline {
	pl.Steps = append(pl.Steps, Step{Op: op, Params: p})
	return pl
}

// Run applies every step to src. The first failing step aborts the run and
// is reported as a StageError naming its position; no partial output is
// returned. An empty pipeline returns a copy of src.
func (pl *Pipeline) Run(src *Pixmap) (*Pixmap, error) {
	e := pl.Engine
	if e == nil {
		e = defaultEngine()
	}
	if err := src.validate(); err != nil {
		return nil, stageErr("pipeline", OpNone, err)
	}
	if len(pl.Steps) == 0 {
		return src.Clone(), nil
	}

	cur := src
	for i, step := range pl.Steps {
		out, err := e.Apply(cur, step.Op, step.Params)
		if err != nil {
			return nil, stageErr(fmt.Sprintf("step %d", i+1), step.Op, err)
		}
		cur = out
	}
	e.log().Debug("ggfx: pipeline done", "steps", len(pl.Steps))
	return cur, nil
}
