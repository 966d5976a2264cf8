package ggfx

import (
	"math/rand/v2"
	"testing"
)

// solid returns a w×h pixmap filled with one color.
func solid(t testing.TB, w, h int, r, g, b, a uint8) *Pixmap {
	t.Helper()
	pm, err := NewPixmap(w, h)
	if err != nil {
		t.Fatalf("NewPixmap(%d, %d) = %v", w, h, err)
	}
	pm.Fill(r, g, b, a)
	return pm
}

// noise returns a w×h pixmap of deterministic pseudo-random samples,
// alpha included.
func noise(t testing.TB, w, h int, seed uint64) *Pixmap {
	t.Helper()
	pm, err := NewPixmap(w, h)
	if err != nil {
		t.Fatalf("NewPixmap(%d, %d) = %v", w, h, err)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range pm.data {
		pm.data[i] = uint8(rng.UintN(256))
	}
	return pm
}

// pixel returns the four channels of (x, y) as an array for easy comparison.
func pixel(pm *Pixmap, x, y int) [4]uint8 {
	r, g, b, a := pm.RGBAAt(x, y)
	return [4]uint8{r, g, b, a}
}

// assertAlphaPreserved fails if any alpha sample of got differs from src.
func assertAlphaPreserved(t *testing.T, src, got *Pixmap) {
	t.Helper()
	for i := 3; i < len(src.data); i += 4 {
		if got.data[i] != src.data[i] {
			t.Fatalf("alpha at pixel %d = %d, want %d", i/4, got.data[i], src.data[i])
		}
	}
}
