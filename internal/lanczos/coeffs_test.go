package lanczos

import (
	"errors"
	"math"
	"testing"
)

func TestPrecompute_KernelWidth(t *testing.T) {
	tests := []struct {
		in, out, want int
	}{
		{1, 100, 7}, // upscale keeps the native support of 3
		{3, 5, 7},
		{4, 2, 13},  // scale 2 -> support 6
		{10, 3, 21}, // scale 3.33 -> support 10
		{100, 100, 7},
	}
	for _, tt := range tests {
		c, err := Precompute(tt.in, tt.out, Lanczos3{})
		if err != nil {
			t.Fatalf("Precompute(%d, %d): %v", tt.in, tt.out, err)
		}
		if c.KernelWidth != tt.want {
			t.Errorf("Precompute(%d, %d): kernel width %d, want %d", tt.in, tt.out, c.KernelWidth, tt.want)
		}
		if len(c.Fixed) != tt.out*c.KernelWidth || len(c.Weights) != tt.out*c.KernelWidth {
			t.Errorf("Precompute(%d, %d): table sizes %d/%d", tt.in, tt.out, len(c.Fixed), len(c.Weights))
		}
	}
}

func TestPrecompute_BoundsWithinInput(t *testing.T) {
	for in := 1; in <= 40; in++ {
		for out := 1; out <= 40; out++ {
			c, err := Precompute(in, out, Lanczos3{})
			if err != nil {
				t.Fatalf("Precompute(%d, %d): %v", in, out, err)
			}
			for i, b := range c.Bounds {
				if b.Start < 0 || b.End() > in || b.Count < 0 || b.Count > c.KernelWidth {
					t.Fatalf("Precompute(%d, %d): bound %d = %+v", in, out, i, b)
				}
				// Padding past the window stays zero.
				for _, w := range c.Fixed[i*c.KernelWidth+b.Count : (i+1)*c.KernelWidth] {
					if w != 0 {
						t.Fatalf("Precompute(%d, %d): row %d has non-zero padding", in, out, i)
					}
				}
			}
		}
	}
}

func TestPrecompute_NormalizedSum(t *testing.T) {
	for _, sz := range [][2]int{{1, 100}, {3, 5}, {10, 3}, {640, 480}, {1920, 320}, {7, 1}} {
		c, err := Precompute(sz[0], sz[1], Lanczos3{})
		if err != nil {
			t.Fatal(err)
		}
		for i := range c.Bounds {
			var sum float64
			var fixed int64
			for j, w := range c.NormalizedRow(i) {
				sum += w
				fixed += int64(c.Row(i)[j])
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("%dx%d row %d: sum %v", sz[0], sz[1], i, sum)
			}
			// Quantization error is at most half a unit per tap.
			if d := fixed - (1 << PrecisionBits); d > int64(c.KernelWidth) || -d > int64(c.KernelWidth) {
				t.Errorf("%dx%d row %d: fixed sum off by %d", sz[0], sz[1], i, d)
			}
		}
	}
}

func TestPrecompute_Golden(t *testing.T) {
	tests := []struct {
		name    string
		in, out int
		row     int
		bound   Bound
		want    []int32
	}{
		{"down 4->2 first", 4, 2, 0, Bound{0, 4}, []int32{1946964, 1946964, 591023, -290647}},
		{"down 4->2 second", 4, 2, 1, Bound{0, 4}, []int32{-290647, 591023, 1946964, 1946964}},
		{"up 3->5 first", 3, 5, 0, Bound{0, 3}, []int32{4647556, -590540, 137288}},
		{"up 3->5 second", 3, 5, 1, Bound{0, 3}, []int32{2815995, 1808651, -430341}},
		{"up 3->5 centre", 3, 5, 2, Bound{0, 3}, []int32{0, 4194304, 0}},
		{"down 10->3 centre", 10, 3, 1, Bound{0, 10},
			[]int32{-179221, -46923, 329915, 821857, 1171524, 1171524, 821857, 329915, -46923, -179221}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Precompute(tt.in, tt.out, Lanczos3{})
			if err != nil {
				t.Fatal(err)
			}
			if c.Bounds[tt.row] != tt.bound {
				t.Errorf("bound: got %+v, want %+v", c.Bounds[tt.row], tt.bound)
			}
			got := c.Row(tt.row)
			if len(got) != len(tt.want) {
				t.Fatalf("taps: got %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tap %d: got %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPrecompute_SinglePixelSource(t *testing.T) {
	c, err := Precompute(1, 100, Lanczos3{})
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range c.Bounds {
		if b.Start != 0 || b.Count > 1 {
			t.Fatalf("bound %d: %+v", i, b)
		}
		if r := c.Row(i); len(r) != 1 || r[0] != 1<<PrecisionBits {
			t.Fatalf("row %d: %v", i, r)
		}
	}
}

func TestPrecompute_Errors(t *testing.T) {
	if _, err := Precompute(10, 0, Lanczos3{}); !errors.Is(err, ErrInvalidOutputSize) {
		t.Errorf("out=0: got %v", err)
	}
	if _, err := Precompute(10, -4, Lanczos3{}); !errors.Is(err, ErrInvalidOutputSize) {
		t.Errorf("out<0: got %v", err)
	}
	if _, err := Precompute(0, 10, Lanczos3{}); !errors.Is(err, ErrInvalidOutputSize) {
		t.Errorf("in=0: got %v", err)
	}
	if _, err := PrecomputeSpan(-3, 0, 1, 10, Lanczos3{}); !errors.Is(err, ErrInvalidOutputSize) {
		t.Errorf("in<0: got %v", err)
	}
	// 7 taps * 8 bytes: anything above MaxInt32/56 must be refused before
	// the table is allocated.
	if _, err := Precompute(1, math.MaxInt32/56+1, Lanczos3{}); !errors.Is(err, ErrCoefficientOverflow) {
		t.Errorf("overflow: got %v", err)
	}
}

func TestPrecomputeSpan(t *testing.T) {
	c, err := PrecomputeSpan(8, 2, 6, 4, Lanczos3{})
	if err != nil {
		t.Fatal(err)
	}
	if c.KernelWidth != 7 {
		t.Errorf("kernel width: got %d, want 7", c.KernelWidth)
	}
	want := []Bound{{0, 6}, {1, 6}, {2, 6}, {3, 5}}
	for i, b := range want {
		if c.Bounds[i] != b {
			t.Errorf("bound %d: got %+v, want %+v", i, c.Bounds[i], b)
		}
	}

	for _, span := range [][2]float64{{-1, 4}, {4, 4}, {5, 3}, {0, 9}} {
		if _, err := PrecomputeSpan(8, span[0], span[1], 4, Lanczos3{}); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("span %v: got %v", span, err)
		}
	}
}

func TestQuantize(t *testing.T) {
	const one = 1 << PrecisionBits
	tests := []struct {
		in   float64
		want int32
	}{
		{0, 0},
		{1, one},
		{-1, -one},
		{0.25, one / 4},
		{0.5 / one, 1},   // half rounds away from zero
		{-0.5 / one, -1}, // on both sides
		{0.49 / one, 0},
		{-0.49 / one, 0},
	}
	for _, tt := range tests {
		if got := Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%v): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClip8(t *testing.T) {
	tests := []struct {
		in   int64
		want uint8
	}{
		{0, 0},
		{Bias, 0},
		{1 << PrecisionBits, 1},
		{128<<PrecisionBits + Bias, 128},
		{255 << PrecisionBits, 255},
		{256 << PrecisionBits, 255},
		{-1, 0},
		{-(1 << 40), 0},
		{math.MaxInt64, 255},
		{math.MinInt64, 0},
	}
	for _, tt := range tests {
		if got := Clip8(tt.in); got != tt.want {
			t.Errorf("Clip8(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCoefficients_WindowShifted(t *testing.T) {
	c, err := Precompute(100, 10, Lanczos3{})
	if err != nil {
		t.Fatal(err)
	}
	start, end := c.Window()
	if start != c.Bounds[0].Start || end != c.Bounds[len(c.Bounds)-1].End() {
		t.Errorf("window [%d, %d) does not span first and last bounds", start, end)
	}

	// A sub-span keeps its windows away from the input edges.
	c, err = PrecomputeSpan(40, 20, 30, 5, Lanczos3{})
	if err != nil {
		t.Fatal(err)
	}
	start, end = c.Window()
	if start != 15 || end != 35 {
		t.Fatalf("span window: got [%d, %d), want [15, 35)", start, end)
	}
	s := c.Shifted(start)
	if s.InSize != end-start {
		t.Errorf("shifted in size: got %d, want %d", s.InSize, end-start)
	}
	for i := range c.Bounds {
		if s.Bounds[i].Start != c.Bounds[i].Start-start || s.Bounds[i].Count != c.Bounds[i].Count {
			t.Errorf("bound %d: got %+v from %+v", i, s.Bounds[i], c.Bounds[i])
		}
	}
	// The original table is untouched.
	if c.Bounds[0].Start != start {
		t.Errorf("Shifted modified the receiver")
	}
}
