package lanczos

import "fmt"

// Axis names the dimension a pass resamples.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// pass describes one axis convolution in terms of byte strides, so the same
// loop serves rows (horizontal) and columns (vertical).
type pass struct {
	src, dst []byte
	channels int

	// lines is the number of rows (horizontal) or columns (vertical) in dst.
	lines int
	// srcBase is the byte offset of the first line in src.
	srcBase int
	// srcLine/dstLine step from one line to the next.
	srcLine, dstLine int
	// srcTap steps between neighbouring input samples along the axis;
	// dstSample steps between neighbouring output samples.
	srcTap, dstSample int
}

// ResampleAxis convolves src along axis with c and writes the result into
// dst, which must already have the output shape.
//
// offset selects the first row (horizontal) or column (vertical) of src that
// maps to line 0 of dst; it is non-zero when dst covers a cropped window.
// Along axis, src must span exactly c.InSize samples and dst c.OutSize.
func ResampleAxis(dst, src *Buffer, offset int, c *Coefficients, axis Axis, s Strategy) error {
	if err := checkPass(dst, src, offset, c, axis); err != nil {
		return err
	}
	if s.resolve() == Lanes {
		if axis == Horizontal {
			horizontalLanes(newPass(dst, src, offset, axis), c)
		} else {
			verticalLanes(dst, src, offset, c)
		}
		return nil
	}
	resampleScalar(newPass(dst, src, offset, axis), c)
	return nil
}

func checkPass(dst, src *Buffer, offset int, c *Coefficients, axis Axis) error {
	if dst.Channels != src.Channels {
		return fmt.Errorf("%w: %d channels into %d", ErrShapeMismatch, src.Channels, dst.Channels)
	}
	if len(dst.Pix) != dst.Width*dst.Height*dst.Channels || len(src.Pix) != src.Width*src.Height*src.Channels {
		return fmt.Errorf("%w: pixel slice length does not match dimensions", ErrShapeMismatch)
	}
	inAxis, outAxis, inOther, outOther := src.Width, dst.Width, src.Height, dst.Height
	if axis == Vertical {
		inAxis, outAxis, inOther, outOther = src.Height, dst.Height, src.Width, dst.Width
	}
	if inAxis != c.InSize || outAxis != c.OutSize {
		return fmt.Errorf("%w: %s pass %d->%d with coefficients %d->%d",
			ErrShapeMismatch, axis, inAxis, outAxis, c.InSize, c.OutSize)
	}
	if offset < 0 || offset+outOther > inOther {
		return fmt.Errorf("%w: %s pass lines [%d, %d) outside source extent %d",
			ErrShapeMismatch, axis, offset, offset+outOther, inOther)
	}
	for i, b := range c.Bounds {
		if b.Start < 0 || b.End() > inAxis || b.Count > c.KernelWidth {
			return fmt.Errorf("%w: window %d [%d, %d) outside [0, %d)",
				ErrShapeMismatch, i, b.Start, b.End(), inAxis)
		}
	}
	return nil
}

func newPass(dst, src *Buffer, offset int, axis Axis) *pass {
	ch := src.Channels
	if axis == Horizontal {
		return &pass{
			src: src.Pix, dst: dst.Pix, channels: ch,
			lines:   dst.Height,
			srcBase: offset * src.Stride(),
			srcLine: src.Stride(), dstLine: dst.Stride(),
			srcTap: ch, dstSample: ch,
		}
	}
	// Columns: walking a line moves one pixel right, walking taps moves one
	// row down. This is the transposed view of the horizontal case.
	return &pass{
		src: src.Pix, dst: dst.Pix, channels: ch,
		lines:   dst.Width,
		srcBase: offset * ch,
		srcLine: ch, dstLine: ch,
		srcTap: src.Stride(), dstSample: dst.Stride(),
	}
}

// resampleScalar is the reference loop.
func resampleScalar(p *pass, c *Coefficients) {
	for l := 0; l < p.lines; l++ {
		sl := p.srcBase + l*p.srcLine
		dl := l * p.dstLine
		for i, b := range c.Bounds {
			k := c.Row(i)
			s0 := sl + b.Start*p.srcTap
			d := dl + i*p.dstSample
			for ch := 0; ch < p.channels; ch++ {
				acc := int64(Bias)
				si := s0 + ch
				for _, w := range k {
					acc += int64(p.src[si]) * int64(w)
					si += p.srcTap
				}
				p.dst[d+ch] = Clip8(acc)
			}
		}
	}
}
