package lanczos

import (
	"math"
	"testing"
)

func TestLanczos3_Support(t *testing.T) {
	var f Lanczos3
	if f.Support() != 3 {
		t.Errorf("support: got %v, want 3", f.Support())
	}
	if f.Name() != "lanczos3" {
		t.Errorf("name: got %q", f.Name())
	}
}

func TestLanczos3_Values(t *testing.T) {
	var f Lanczos3
	if got := f.At(0); got != 1 {
		t.Errorf("At(0): got %v, want 1", got)
	}
	// Zero outside [-3, 3); the upper bound is exclusive.
	for _, x := range []float64{3, 3.5, 10, -3.0001, -100} {
		if got := f.At(x); got != 0 {
			t.Errorf("At(%v): got %v, want 0", x, got)
		}
	}
	// Integer taps are zeros of sinc.
	for _, x := range []float64{-2, -1, 1, 2} {
		if got := f.At(x); math.Abs(got) > 1e-15 {
			t.Errorf("At(%v): got %v, want ~0", x, got)
		}
	}
	// sinc(0.5)*sinc(1/6) = (2/pi) * (sin(pi/6)/(pi/6)) = (2/pi)*(3/pi).
	want := 6 / (math.Pi * math.Pi)
	if got := f.At(0.5); math.Abs(got-want) > 1e-12 {
		t.Errorf("At(0.5): got %v, want %v", got, want)
	}
}

func TestLanczos3_Symmetric(t *testing.T) {
	var f Lanczos3
	for x := 0.05; x < 3; x += 0.1 {
		if f.At(x) != f.At(-x) {
			t.Errorf("At(%v)=%v != At(%v)=%v", x, f.At(x), -x, f.At(-x))
		}
	}
}
