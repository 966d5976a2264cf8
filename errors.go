package ggfx

import (
	"errors"
	"fmt"
)

// Sentinel errors for filter operations.
var (
	// ErrInvalidBuffer is returned for nil pixmaps, non-positive dimensions
	// or pixel data whose length is not width*height*4.
	ErrInvalidBuffer = errors.New("ggfx: invalid buffer")

	// ErrInvalidKernel is returned for malformed convolution kernels.
	ErrInvalidKernel = errors.New("ggfx: invalid kernel")

	// ErrInvalidParameter is returned for non-finite or missing numeric arguments.
	ErrInvalidParameter = errors.New("ggfx: invalid parameter")
)

// StageError identifies the pipeline stage that failed.
// It unwraps to the underlying sentinel, so errors.Is works through it.
type StageError struct {
	Stage string
	Op    Op
	Err   error
}

func (e *StageError) Error() string {
	if e.Op == OpNone || e.Stage == e.Op.String() {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Op, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageErr wraps err in a StageError. A nil err stays nil.
func stageErr(stage string, op Op, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Op: op, Err: err}
}
