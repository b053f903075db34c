package lanczos

import (
	"fmt"
	"math"
)

// PrecisionBits is the number of fractional bits in a quantized weight.
// 32 bits minus 8 for the sample minus 2 of headroom for negative lobes
// and overshoot.
const PrecisionBits = 32 - 8 - 2

// Bias is added to every accumulator before the final shift so that the
// shift rounds to nearest.
const Bias = 1 << (PrecisionBits - 1)

// Bound is the input window of one output sample: taps read input indices
// [Start, Start+Count).
type Bound struct {
	Start int
	Count int
}

// End returns the exclusive end of the window.
func (b Bound) End() int { return b.Start + b.Count }

// Coefficients holds the per-axis convolution table.
//
// Row i covers output sample i and occupies [i*KernelWidth, (i+1)*KernelWidth)
// of both Weights and Fixed; taps past Bounds[i].Count are zero.
type Coefficients struct {
	InSize      int
	OutSize     int
	KernelWidth int
	Bounds      []Bound
	// Weights are the normalized weights before quantization.
	Weights []float64
	// Fixed are the weights scaled by 2^PrecisionBits and rounded half away
	// from zero.
	Fixed []int32
}

// Precompute builds the coefficient table mapping [0, inSize) onto
// [0, outSize).
func Precompute(inSize, outSize int, f Filter) (*Coefficients, error) {
	return PrecomputeSpan(inSize, 0, float64(inSize), outSize, f)
}

// PrecomputeSpan builds the coefficient table mapping the input sub-range
// [in0, in1) onto [0, outSize). Windows are still clamped to [0, inSize).
func PrecomputeSpan(inSize int, in0, in1 float64, outSize int, f Filter) (*Coefficients, error) {
	if outSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOutputSize, outSize)
	}
	if inSize < 1 {
		return nil, fmt.Errorf("%w: input size %d", ErrInvalidOutputSize, inSize)
	}
	if !(0 <= in0 && in0 < in1 && in1 <= float64(inSize)) {
		return nil, fmt.Errorf("%w: span [%g, %g) outside [0, %d)", ErrShapeMismatch, in0, in1, inSize)
	}

	scale := (in1 - in0) / float64(outSize)
	filterScale := math.Max(scale, 1)
	support := f.Support() * filterScale
	kw := int(math.Ceil(support))*2 + 1

	// Guard the table allocation the same way the reference does: the table
	// holds outSize*kw doubles and must stay addressable with int32 offsets.
	if outSize > math.MaxInt32/(kw*8) {
		return nil, fmt.Errorf("%w: %d outputs x %d taps", ErrCoefficientOverflow, outSize, kw)
	}

	c := &Coefficients{
		InSize:      inSize,
		OutSize:     outSize,
		KernelWidth: kw,
		Bounds:      make([]Bound, outSize),
		Weights:     make([]float64, outSize*kw),
		Fixed:       make([]int32, outSize*kw),
	}

	invScale := 1 / filterScale
	for xx := 0; xx < outSize; xx++ {
		center := in0 + (float64(xx)+0.5)*scale

		// Conversions truncate toward zero; negative starts clamp to 0.
		xmin := int(center - support + 0.5)
		if xmin < 0 {
			xmin = 0
		}
		xmax := int(center + support + 0.5)
		if xmax > inSize {
			xmax = inSize
		}
		count := xmax - xmin

		k := c.Weights[xx*kw : (xx+1)*kw]
		var sum float64
		for x := 0; x < count; x++ {
			w := f.At((float64(x+xmin) - center + 0.5) * invScale)
			k[x] = w
			sum += w
		}
		if sum != 0 {
			for x := 0; x < count; x++ {
				k[x] /= sum
			}
		}

		q := c.Fixed[xx*kw : (xx+1)*kw]
		for x := 0; x < count; x++ {
			q[x] = Quantize(k[x])
		}
		c.Bounds[xx] = Bound{Start: xmin, Count: count}
	}
	return c, nil
}

// Quantize converts a normalized weight to fixed point, rounding half away
// from zero.
func Quantize(w float64) int32 {
	const one = float64(1 << PrecisionBits)
	if w < 0 {
		return int32(math.Trunc(-0.5 + w*one))
	}
	return int32(math.Trunc(0.5 + w*one))
}

// Clip8 shifts an accumulator back to 8 bits and saturates to [0, 255].
func Clip8(acc int64) uint8 {
	v := acc >> PrecisionBits
	if v < 0 {
		return 0
	}
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

// Row returns the quantized taps of output sample i, trimmed to its window.
func (c *Coefficients) Row(i int) []int32 {
	off := i * c.KernelWidth
	return c.Fixed[off : off+c.Bounds[i].Count]
}

// NormalizedRow returns the pre-quantization weights of output sample i,
// trimmed to its window.
func (c *Coefficients) NormalizedRow(i int) []float64 {
	off := i * c.KernelWidth
	return c.Weights[off : off+c.Bounds[i].Count]
}

// Window returns the union [start, end) of every input window in the table.
func (c *Coefficients) Window() (start, end int) {
	if len(c.Bounds) == 0 {
		return 0, 0
	}
	start, end = c.Bounds[0].Start, c.Bounds[0].End()
	for _, b := range c.Bounds[1:] {
		start = min(start, b.Start)
		end = max(end, b.End())
	}
	return start, end
}

// Shifted returns a copy whose windows are expressed relative to offset,
// for use against an input cropped to [offset, end) where end is the end of
// Window. Weight slices are shared with c.
func (c *Coefficients) Shifted(offset int) *Coefficients {
	s := *c
	s.Bounds = make([]Bound, len(c.Bounds))
	for i, b := range c.Bounds {
		s.Bounds[i] = Bound{Start: b.Start - offset, Count: b.Count}
	}
	_, end := c.Window()
	s.InSize = end - offset
	return &s
}
