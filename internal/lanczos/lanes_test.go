package lanczos

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/ajroetker/go-highway/hwy"
)

func TestDot_MatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for n := 0; n <= 17; n++ {
		a := make([]int64, n)
		b := make([]int64, n)
		var want int64
		for i := range a {
			a[i] = int64(rng.Intn(256))
			b[i] = int64(rng.Intn(1<<PrecisionBits)) - 1<<(PrecisionBits-1)
			want += a[i] * b[i]
		}
		for _, lanes := range []int{hwy.MaxLanes[int64](), 0, 1, 3} {
			if got := dot(a, b, lanes); got != want {
				t.Errorf("n=%d lanes=%d: got %d, want %d", n, lanes, got, want)
			}
		}
	}
}

func TestVerticalLanes_MatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(37))
	src := randomBuffer(rng, 37, 20, 3)
	c, err := Precompute(20, 7, Lanczos3{})
	if err != nil {
		t.Fatal(err)
	}
	// Full width, then an odd column window so the row length leaves a
	// tail after the vector chunks.
	for _, cols := range [][2]int{{0, 37}, {4, 31}} {
		want, _ := NewBuffer(cols[1], 7, 3)
		got, _ := NewBuffer(cols[1], 7, 3)
		if err := ResampleAxis(want, src, cols[0], c, Vertical, Scalar); err != nil {
			t.Fatal(err)
		}
		if err := ResampleAxis(got, src, cols[0], c, Vertical, Lanes); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Errorf("columns %v: lanes differ from scalar", cols)
		}
	}
}

func TestHorizontalLanes_Upscale(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	src := randomBuffer(rng, 5, 9, 4)
	// Downscaling 5 -> 1 widens the kernel; upscaling narrows it.
	for _, out := range []int{1, 2, 13} {
		c, err := Precompute(5, out, Lanczos3{})
		if err != nil {
			t.Fatal(err)
		}
		want, _ := NewBuffer(out, 9, 4)
		got, _ := NewBuffer(out, 9, 4)
		if err := ResampleAxis(want, src, 0, c, Horizontal, Scalar); err != nil {
			t.Fatal(err)
		}
		if err := ResampleAxis(got, src, 0, c, Horizontal, Lanes); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Errorf("5 -> %d: lanes differ from scalar", out)
		}
	}
}

func TestStrategy_AutoPicksLanes(t *testing.T) {
	t.Setenv("HWY_NO_SIMD", "")
	if got := DetectStrategy(); got != Lanes {
		t.Errorf("DetectStrategy: got %v, want lanes (hwy level %s)", got, hwy.CurrentName())
	}
	if got := Auto.resolve(); got != Lanes {
		t.Errorf("Auto resolved to %v", got)
	}
}
