package lanczos

import "github.com/ajroetker/go-highway/hwy"

// widen copies the fixed-point table into int64 so taps can be loaded as
// hwy vectors without per-step conversion.
func widen(c *Coefficients) []int64 {
	w := make([]int64, len(c.Fixed))
	for i, v := range c.Fixed {
		w[i] = int64(v)
	}
	return w
}

// dot returns the sum of a[i]*b[i] over len(a) taps, vector-wide chunks
// first and a scalar tail after. Integer lanes keep the sum exact.
func dot(a, b []int64, lanes int) int64 {
	n := 0
	if lanes > 0 {
		n = len(a) - len(a)%lanes
	}
	var sum int64
	if n > 0 {
		acc := hwy.Zero[int64]()
		for i := 0; i < n; i += lanes {
			acc = hwy.Add(acc, hwy.Mul(hwy.Load(a[i:]), hwy.Load(b[i:])))
		}
		sum = hwy.ReduceSum(acc)
	}
	for i := n; i < len(a); i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// horizontalLanes gathers the taps of each output sample into a scratch
// vector and reduces them against the widened weight row.
func horizontalLanes(p *pass, c *Coefficients) {
	lanes := hwy.MaxLanes[int64]()
	weights := widen(c)
	samples := make([]int64, c.KernelWidth)
	tap := p.srcTap
	for l := 0; l < p.lines; l++ {
		sl := p.srcBase + l*p.srcLine
		dl := l * p.dstLine
		for i, b := range c.Bounds {
			k := weights[i*c.KernelWidth : i*c.KernelWidth+b.Count]
			s0 := sl + b.Start*tap
			d := dl + i*p.dstSample
			for ch := 0; ch < p.channels; ch++ {
				s := samples[:b.Count]
				si := s0 + ch
				for t := range s {
					s[t] = int64(p.src[si])
					si += tap
				}
				p.dst[d+ch] = Clip8(Bias + dot(s, k, lanes))
			}
		}
	}
}

// verticalLanes walks source rows in memory order: every output row is a
// weighted sum of whole input rows, one lane per byte of the row.
func verticalLanes(dst, src *Buffer, offset int, c *Coefficients) {
	n := dst.Stride()
	if n == 0 {
		return
	}
	lanes := hwy.MaxLanes[int64]()
	chunk := 0
	if lanes > 0 {
		chunk = n - n%lanes
	}
	acc := make([]int64, n)
	row64 := make([]int64, n)
	srcStride := src.Stride()
	col := offset * src.Channels
	for i, b := range c.Bounds {
		for j := range acc {
			acc[j] = Bias
		}
		for t, w := range c.Row(i) {
			row := src.Pix[(b.Start+t)*srcStride+col:]
			for j, v := range row[:n] {
				row64[j] = int64(v)
			}
			kw := hwy.Set(int64(w))
			j := 0
			for ; j < chunk; j += lanes {
				hwy.Store(hwy.Add(hwy.Load(acc[j:]), hwy.Mul(hwy.Load(row64[j:]), kw)), acc[j:])
			}
			for ; j < n; j++ {
				acc[j] += row64[j] * int64(w)
			}
		}
		out := dst.Row(i)
		for j, a := range acc {
			out[j] = Clip8(a)
		}
	}
}
