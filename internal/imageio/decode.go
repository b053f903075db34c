package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"

	"github.com/gen2brain/jpegn"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	ErrEmptyData         = errors.New("imageio: empty input")
	ErrUnsupportedFormat = errors.New("imageio: unsupported image format")
	ErrTooLarge          = errors.New("imageio: image exceeds pixel limit")
)

// DecodeOptions tunes Decode.
type DecodeOptions struct {
	// AutoRotate applies the EXIF orientation of JPEG input so the result
	// is upright.
	AutoRotate bool
	// MaxPixels rejects images whose width*height exceeds it before the
	// pixel data is decoded. Zero disables the check.
	MaxPixels int
}

// DecodeConfig returns the dimensions and container of data without
// decoding pixels. JPEG dimensions are pre-rotation.
func DecodeConfig(data []byte) (image.Config, Format, error) {
	if len(data) == 0 {
		return image.Config{}, FormatUnknown, ErrEmptyData
	}
	f := Sniff(data)
	r := bytes.NewReader(data)
	var (
		cfg image.Config
		err error
	)
	switch f {
	case FormatJPEG:
		cfg, err = jpegn.DecodeConfig(r)
	case FormatPNG:
		cfg, err = png.DecodeConfig(r)
	case FormatWebP:
		cfg, err = webp.DecodeConfig(r)
	case FormatGIF:
		cfg, err = gif.DecodeConfig(r)
	case FormatBMP:
		cfg, err = bmp.DecodeConfig(r)
	case FormatTIFF:
		cfg, err = tiff.DecodeConfig(r)
	default:
		return image.Config{}, FormatUnknown, ErrUnsupportedFormat
	}
	if err != nil {
		return image.Config{}, f, fmt.Errorf("%s config: %w", f, err)
	}
	return cfg, f, nil
}

// Decode decodes data into an image and reports its container. GIF input
// yields the first frame.
func Decode(data []byte, opts DecodeOptions) (image.Image, Format, error) {
	cfg, f, err := DecodeConfig(data)
	if err != nil {
		return nil, f, err
	}
	if opts.MaxPixels > 0 && cfg.Width > opts.MaxPixels/max(cfg.Height, 1) {
		return nil, f, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	r := bytes.NewReader(data)
	var img image.Image
	switch f {
	case FormatJPEG:
		img, err = jpegn.Decode(r, &jpegn.Options{AutoRotate: opts.AutoRotate, UpsampleMethod: jpegn.CatmullRom})
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatWebP:
		img, err = webp.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatTIFF:
		img, err = tiff.Decode(r)
	}
	if err != nil {
		return nil, f, fmt.Errorf("decode %s: %w", f, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, f, fmt.Errorf("decode %s: %w", f, ErrEmptyData)
	}
	return img, f, nil
}
