package encoder

import (
	"errors"
	"image"
)

// DefaultQuality is used when Options.Quality is outside 1-100.
const DefaultQuality = 82

// ErrUnavailable is returned by encoders whose external tool is missing.
var ErrUnavailable = errors.New("encoder unavailable")

// Options controls a single encode.
type Options struct {
	// Quality is the lossy quality, 1-100.
	Quality int
	// Lossless asks for lossless output where the format supports it.
	// Formats that are always lossy or always lossless ignore it.
	Lossless bool
}

func (o Options) quality() int {
	if o.Quality <= 0 || o.Quality > 100 {
		return DefaultQuality
	}
	return o.Quality
}

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "webp", "avif", "png").
	Format() string

	// Encode converts the image to bytes.
	Encode(img image.Image, opts Options) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
