package ggfx

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestNewKernel(t *testing.T) {
	tests := []struct {
		name        string
		weights     []float64
		opts        []KernelOption
		wantDim     int
		wantDivisor float64
		wantErr     error
	}{
		{"identity", []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}, nil, 3, 1, nil},
		{"sum is divisor", []float64{1, 2, 1, 2, 4, 2, 1, 2, 1}, nil, 3, 16, nil},
		{"zero sum uses 1", []float64{0, -1, 0, -1, 4, -1, 0, -1, 0}, nil, 3, 1, nil},
		{"explicit divisor", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, []KernelOption{WithDivisor(3)}, 3, 3, nil},
		{"zero divisor keeps default", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, []KernelOption{WithDivisor(0)}, 3, 9, nil},
		{"5x5", slices.Repeat([]float64{1}, 25), nil, 5, 25, nil},
		{"8 weights", make([]float64, 8), nil, 0, 0, ErrInvalidKernel},
		{"10 weights", make([]float64, 10), nil, 0, 0, ErrInvalidKernel},
		{"16 weights", make([]float64, 16), nil, 0, 0, ErrInvalidKernel},
		{"single weight", []float64{1}, nil, 0, 0, ErrInvalidKernel},
		{"empty", nil, nil, 0, 0, ErrInvalidKernel},
		{"NaN weight", []float64{0, 0, 0, 0, math.NaN(), 0, 0, 0, 0}, nil, 0, 0, ErrInvalidKernel},
		{"infinite bias", []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}, []KernelOption{WithBias(math.Inf(-1))}, 0, 0, ErrInvalidKernel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(tt.weights, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewKernel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if k.Dim != tt.wantDim {
				t.Errorf("Dim = %d, want %d", k.Dim, tt.wantDim)
			}
			if k.Divisor != tt.wantDivisor {
				t.Errorf("Divisor = %v, want %v", k.Divisor, tt.wantDivisor)
			}
			if !k.PreserveAlpha {
				t.Error("PreserveAlpha = false, want true by default")
			}
		})
	}
}

func TestNewKernel_CopiesWeights(t *testing.T) {
	w := []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}
	k, err := NewKernel(w, WithBias(5), WithPreserveAlpha(false))
	if err != nil {
		t.Fatal(err)
	}
	w[4] = 100
	if k.Weights[4] != 1 {
		t.Error("NewKernel aliased the weights slice")
	}
	if k.Bias != 5 || k.PreserveAlpha {
		t.Errorf("options not applied: bias %v, preserveAlpha %v", k.Bias, k.PreserveAlpha)
	}
}

func TestKernel_EffectiveDivisor(t *testing.T) {
	tests := []struct {
		name string
		k    Kernel
		want float64
	}{
		{"explicit", Kernel{Weights: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, Dim: 3, Divisor: 2}, 2},
		{"derived from sum", Kernel{Weights: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, Dim: 3}, 9},
		{"zero sum", Kernel{Weights: []float64{0, -1, 0, -1, 4, -1, 0, -1, 0}, Dim: 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.k.EffectiveDivisor(); got != tt.want {
				t.Errorf("EffectiveDivisor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name    string
		k       Kernel
		weights []float64
		divisor float64
	}{
		{"edges", Edges(), []float64{0, -1, 0, -1, 4, -1, 0, -1, 0}, 1},
		{"sharpen", Sharpen(), []float64{0, -1, 0, -1, 5, -1, 0, -1, 0}, 1},
		{"burn", Burn(), slices.Repeat([]float64{1.0 / 11}, 9), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.k.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if !slices.Equal(tt.k.Weights, tt.weights) {
				t.Errorf("Weights = %v, want %v", tt.k.Weights, tt.weights)
			}
			if tt.k.EffectiveDivisor() != tt.divisor {
				t.Errorf("EffectiveDivisor() = %v, want %v", tt.k.EffectiveDivisor(), tt.divisor)
			}
			if !tt.k.PreserveAlpha || tt.k.Bias != 0 {
				t.Errorf("PreserveAlpha = %v, Bias = %v, want true, 0", tt.k.PreserveAlpha, tt.k.Bias)
			}
		})
	}

	b := Blur()
	if err := b.Validate(); err != nil {
		t.Fatalf("Blur().Validate() = %v", err)
	}
	if math.Abs(b.EffectiveDivisor()-1) > 1e-9 {
		t.Errorf("Blur divisor = %v, want 1", b.EffectiveDivisor())
	}
}

func TestPresets_FreshCopies(t *testing.T) {
	a := Sharpen()
	a.Weights[4] = 99
	if b := Sharpen(); b.Weights[4] != 5 {
		t.Error("Sharpen() shares its weights between calls")
	}
}

func TestPreset(t *testing.T) {
	tests := []struct {
		name   string
		wantOK bool
		want   []float64
	}{
		{"sharpen", true, Sharpen().Weights},
		{"SHARPEN", true, Sharpen().Weights},
		{"  Edges ", true, Edges().Weights},
		{"blur", true, Blur().Weights},
		{"Burn", true, Burn().Weights},
		{"emboss", false, nil},
		{"", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := Preset(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Preset(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && !slices.Equal(k.Weights, tt.want) {
				t.Errorf("Preset(%q) weights = %v, want %v", tt.name, k.Weights, tt.want)
			}
		})
	}
}

func TestPresetNames(t *testing.T) {
	want := []string{"blur", "burn", "edges", "sharpen"}
	if got := PresetNames(); !slices.Equal(got, want) {
		t.Errorf("PresetNames() = %v, want %v", got, want)
	}
}
