package lanczos

import (
	"fmt"
	"math"
)

// MaxBufferBytes is the largest pixel buffer the package will allocate.
const MaxBufferBytes = math.MaxInt32

// Buffer is a row-major, interleaved 8-bit pixel store.
//
// Channel c of pixel (x, y) lives at Pix[(y*Width+x)*Channels+c]. Rows are
// contiguous with no padding. The channel order is opaque to the package.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewBuffer allocates a zeroed buffer. It fails with ErrAllocation when the
// byte size is negative, overflows, or exceeds MaxBufferBytes.
func NewBuffer(width, height, channels int) (*Buffer, error) {
	n, ok := bufferSize(width, height, channels)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrAllocation, width, height, channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, n),
	}, nil
}

// FromPix wraps pix without copying. The buffer takes ownership of pix.
func FromPix(width, height, channels int, pix []byte) (*Buffer, error) {
	n, ok := bufferSize(width, height, channels)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrAllocation, width, height, channels)
	}
	if len(pix) != n {
		return nil, fmt.Errorf("%w: have %d bytes, want %d for %dx%dx%d",
			ErrShapeMismatch, len(pix), n, width, height, channels)
	}
	return &Buffer{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

func bufferSize(width, height, channels int) (int, bool) {
	if width < 0 || height < 0 || channels < 0 {
		return 0, false
	}
	if width == 0 || height == 0 || channels == 0 {
		return 0, true
	}
	if width > MaxBufferBytes/height {
		return 0, false
	}
	px := width * height
	if px > MaxBufferBytes/channels {
		return 0, false
	}
	return px * channels, true
}

// Empty reports whether the buffer holds no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.Width == 0 || b.Height == 0 || len(b.Pix) == 0
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return &Buffer{}
	}
	c := *b
	c.Pix = make([]byte, len(b.Pix))
	copy(c.Pix, b.Pix)
	return &c
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.Width * b.Channels
}

// Offset returns the index of channel 0 of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// Row returns the bytes of row y.
func (b *Buffer) Row(y int) []byte {
	s := b.Stride()
	return b.Pix[y*s : (y+1)*s]
}

// At returns channel c of pixel (x, y).
func (b *Buffer) At(x, y, c int) uint8 {
	return b.Pix[b.Offset(x, y)+c]
}

// Set writes channel c of pixel (x, y).
func (b *Buffer) Set(x, y, c int, v uint8) {
	b.Pix[b.Offset(x, y)+c] = v
}

// Fill sets every pixel to px. len(px) must equal Channels.
func (b *Buffer) Fill(px ...uint8) {
	if len(px) != b.Channels {
		panic(fmt.Sprintf("lanczos: Fill with %d values on %d channels", len(px), b.Channels))
	}
	for i := 0; i < len(b.Pix); i += b.Channels {
		copy(b.Pix[i:i+b.Channels], px)
	}
}

// SameShape reports whether both buffers have identical dimensions and
// channel counts.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	if b == nil {
		return "Buffer(nil)"
	}
	return fmt.Sprintf("Buffer(%dx%dx%d)", b.Width, b.Height, b.Channels)
}
