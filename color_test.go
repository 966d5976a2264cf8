package ggfx

import (
	"errors"
	"math"
	"testing"
)

func TestInvert(t *testing.T) {
	src, err := FromRGBA([]uint8{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Invert(src)
	if err != nil {
		t.Fatalf("Invert() = %v", err)
	}

	want := [][4]uint8{
		{0, 255, 255, 255}, {255, 0, 255, 255},
		{255, 255, 0, 255}, {0, 0, 0, 255},
	}
	for i, w := range want {
		if p := pixel(got, i%2, i/2); p != w {
			t.Errorf("pixel(%d,%d) = %v, want %v", i%2, i/2, p, w)
		}
	}
}

func TestInvert_KeepsAlpha(t *testing.T) {
	src, err := FromRGBA([]uint8{10, 20, 30, 128, 200, 100, 50, 0}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Invert(src)
	if err != nil {
		t.Fatal(err)
	}
	if p := pixel(got, 0, 0); p != [4]uint8{245, 235, 225, 128} {
		t.Errorf("pixel(0,0) = %v, want [245 235 225 128]", p)
	}
	if p := pixel(got, 1, 0); p != [4]uint8{55, 155, 205, 0} {
		t.Errorf("pixel(1,0) = %v, want [55 155 205 0]", p)
	}
}

func TestInvert_Involution(t *testing.T) {
	src := noise(t, 33, 17, 7)
	once, err := Invert(src)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Invert(once)
	if err != nil {
		t.Fatal(err)
	}
	if !twice.Equal(src) {
		t.Error("Invert(Invert(x)) != x")
	}
}

func TestGreyscale(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"red", 255, 0, 0, 76},
		{"green", 0, 255, 0, 150},
		{"blue", 0, 0, 255, 29},
		{"grey", 128, 128, 128, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Greyscale(solid(t, 1, 1, tt.r, tt.g, tt.b, 200))
			if err != nil {
				t.Fatalf("Greyscale() = %v", err)
			}
			if p := pixel(got, 0, 0); p != [4]uint8{tt.want, tt.want, tt.want, 200} {
				t.Errorf("Greyscale(%d,%d,%d) = %v, want %d", tt.r, tt.g, tt.b, p, tt.want)
			}
		})
	}
}

func TestGreyscale_Idempotent(t *testing.T) {
	src := noise(t, 20, 20, 3)
	once, err := Greyscale(src)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Greyscale(once)
	if err != nil {
		t.Fatal(err)
	}
	if !twice.Equal(once) {
		t.Error("Greyscale is not idempotent")
	}
}

func TestSepia(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    [4]uint8
	}{
		{"dark", 10, 20, 30, [4]uint8{25, 22, 17, 255}},
		{"white saturates", 255, 255, 255, [4]uint8{255, 255, 239, 255}},
		{"black", 0, 0, 0, [4]uint8{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sepia(solid(t, 2, 2, tt.r, tt.g, tt.b, 255))
			if err != nil {
				t.Fatalf("Sepia() = %v", err)
			}
			if p := pixel(got, 1, 1); p != tt.want {
				t.Errorf("Sepia() = %v, want %v", p, tt.want)
			}
		})
	}
}

func TestBrightnessDarkness(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(*Pixmap, float64) (*Pixmap, error)
		amount float64
		want   uint8
	}{
		{"brightness +50", Brightness, 50, 178},
		{"brightness saturates", Brightness, 200, 255},
		{"brightness negative", Brightness, -28, 100},
		{"brightness zero", Brightness, 0, 128},
		{"darkness 50", Darkness, 50, 78},
		{"darkness saturates", Darkness, 200, 0},
		{"darkness negative brightens", Darkness, -27, 155},
		{"fractional amount rounds", Brightness, 0.6, 129},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(solid(t, 3, 3, 128, 128, 128, 90), tt.amount)
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			want := [4]uint8{tt.want, tt.want, tt.want, 90}
			for y := range 3 {
				for x := range 3 {
					if p := pixel(got, x, y); p != want {
						t.Fatalf("pixel(%d,%d) = %v, want %v", x, y, p, want)
					}
				}
			}
		})
	}
}

func TestBrightness_NonFinite(t *testing.T) {
	src := solid(t, 2, 2, 1, 2, 3, 4)
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := Brightness(src, v); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Brightness(%v) error = %v, want ErrInvalidParameter", v, err)
		}
		if _, err := Darkness(src, v); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Darkness(%v) error = %v, want ErrInvalidParameter", v, err)
		}
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		name  string
		grey  uint8
		level float64
		want  uint8
	}{
		{"black stays black", 0, 128, 0},
		{"at level is white", 128, 128, 255},
		{"below level is black", 127, 128, 0},
		{"level above 255 clamps", 255, 300, 255},
		{"level above 255 clamps, near white", 254, 300, 0},
		{"negative level clamps to 0", 0, -10, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Threshold(solid(t, 3, 3, tt.grey, tt.grey, tt.grey, 255), tt.level)
			if err != nil {
				t.Fatalf("Threshold() = %v", err)
			}
			if p := pixel(got, 2, 2); p != [4]uint8{tt.want, tt.want, tt.want, 255} {
				t.Errorf("Threshold(%d, %v) = %v, want %d", tt.grey, tt.level, p, tt.want)
			}
		})
	}
}

func TestThreshold_BinaryOutput(t *testing.T) {
	got, err := Threshold(noise(t, 16, 16, 11), 100)
	if err != nil {
		t.Fatal(err)
	}
	data := got.Data()
	for i := 0; i < len(data); i += 4 {
		v := data[i]
		if (v != 0 && v != 255) || data[i+1] != v || data[i+2] != v {
			t.Fatalf("pixel %d = %v, want pure black or white", i/4, data[i:i+3])
		}
	}
}

func TestThreshold_NonFinite(t *testing.T) {
	src := solid(t, 2, 2, 1, 2, 3, 4)
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := Threshold(src, v); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Threshold(%v) error = %v, want ErrInvalidParameter", v, err)
		}
	}
}

func TestPointOps_PreserveAlphaAndSource(t *testing.T) {
	src := noise(t, 19, 13, 5)
	orig := src.Clone()

	ops := map[string]func(*Pixmap) (*Pixmap, error){
		"greyscale":  Greyscale,
		"invert":     Invert,
		"sepia":      Sepia,
		"brightness": func(p *Pixmap) (*Pixmap, error) { return Brightness(p, 40) },
		"darkness":   func(p *Pixmap) (*Pixmap, error) { return Darkness(p, 40) },
		"threshold":  func(p *Pixmap) (*Pixmap, error) { return Threshold(p, 128) },
	}
	for name, fn := range ops {
		t.Run(name, func(t *testing.T) {
			got, err := fn(src)
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if got.Width() != src.Width() || got.Height() != src.Height() {
				t.Errorf("size = %dx%d, want %dx%d", got.Width(), got.Height(), src.Width(), src.Height())
			}
			assertAlphaPreserved(t, src, got)
			if !src.Equal(orig) {
				t.Error("source was modified")
			}
		})
	}
}

func TestPointOps_InvalidBuffer(t *testing.T) {
	bad := []*Pixmap{nil, {}, {width: 2, height: 2, data: make([]uint8, 3)}}
	for _, pm := range bad {
		if _, err := Invert(pm); !errors.Is(err, ErrInvalidBuffer) {
			t.Errorf("Invert() error = %v, want ErrInvalidBuffer", err)
		}
		if _, err := Threshold(pm, 10); !errors.Is(err, ErrInvalidBuffer) {
			t.Errorf("Threshold() error = %v, want ErrInvalidBuffer", err)
		}
		if _, err := Pixelate(pm, 50); !errors.Is(err, ErrInvalidBuffer) {
			t.Errorf("Pixelate() error = %v, want ErrInvalidBuffer", err)
		}
	}
}

func TestPixelate(t *testing.T) {
	src, err := FromRGBA([]uint8{
		0, 0, 0, 255, 100, 100, 100, 255, 7, 7, 7, 255,
		200, 200, 200, 255, 101, 101, 101, 255, 9, 9, 9, 255,
	}, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Pixelate(src, 50)
	if err != nil {
		t.Fatalf("Pixelate() = %v", err)
	}

	// 2×2 blocks: the left block averages four pixels, the right edge
	// block is one column wide.
	left := [4]uint8{100, 100, 100, 255} // (0+100+200+101+2)/4
	right := [4]uint8{8, 8, 8, 255}
	for y := range 2 {
		if p := pixel(got, 0, y); p != left {
			t.Errorf("pixel(0,%d) = %v, want %v", y, p, left)
		}
		if p := pixel(got, 1, y); p != left {
			t.Errorf("pixel(1,%d) = %v, want %v", y, p, left)
		}
		if p := pixel(got, 2, y); p != right {
			t.Errorf("pixel(2,%d) = %v, want %v", y, p, right)
		}
	}
}

func TestPixelate_Identity(t *testing.T) {
	src := noise(t, 10, 10, 2)
	for _, percent := range []float64{100, 0, 150, math.NaN()} {
		got, err := Pixelate(src, percent)
		if err != nil {
			t.Fatalf("Pixelate(%v) = %v", percent, err)
		}
		if !got.Equal(src) {
			t.Errorf("Pixelate(%v) changed the image", percent)
		}
	}
}

func TestEngine_ParallelMatchesSerial(t *testing.T) {
	serial := NewEngine(WithWorkers(1))
	defer serial.Close()
	par := NewEngine(WithWorkers(4), WithParallelThreshold(0))
	defer par.Close()

	if serial.Workers() != 1 {
		t.Errorf("serial.Workers() = %d, want 1", serial.Workers())
	}
	if par.Workers() != 4 {
		t.Errorf("par.Workers() = %d, want 4", par.Workers())
	}

	src := noise(t, 97, 61, 42)
	ops := []struct {
		op Op
		p  Params
	}{
		{OpGreyscale, Params{}},
		{OpInvert, Params{}},
		{OpSepia, Params{}},
		{OpBrightness, Params{Amount: 33}},
		{OpDarkness, Params{Amount: 12}},
		{OpThreshold, Params{Level: 90}},
		{OpPixelate, Params{Level: 20}},
		{OpBlur, Params{Intensity: 3}},
		{OpSharpen, Params{Intensity: 2}},
		{OpEdges, Params{Intensity: 1}},
		{OpBurn, Params{Intensity: 2}},
	}
	for _, tt := range ops {
		t.Run(tt.op.String(), func(t *testing.T) {
			want, err := serial.Apply(src, tt.op, tt.p)
			if err != nil {
				t.Fatalf("serial: %v", err)
			}
			got, err := par.Apply(src, tt.op, tt.p)
			if err != nil {
				t.Fatalf("parallel: %v", err)
			}
			if !got.Equal(want) {
				t.Error("parallel output differs from serial output")
			}
		})
	}
}

func TestEngine_CloseRunsInline(t *testing.T) {
	e := NewEngine(WithWorkers(3), WithParallelThreshold(0))
	e.Close()
	e.Close()

	src := noise(t, 40, 40, 9)
	got, err := e.Invert(src)
	if err != nil {
		t.Fatalf("Invert() after Close = %v", err)
	}
	want, _ := Invert(src)
	if !got.Equal(want) {
		t.Error("closed engine produced different output")
	}
}
