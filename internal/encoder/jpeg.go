package encoder

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/sorabito-takano/imgopt/internal/imageio"
)

// JPEGEncoder encodes images to JPEG through imaging. Alpha is discarded
// and each pixel keeps its straight colour.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return "jpeg" }
func (e *JPEGEncoder) Available() bool   { return true }

func (e *JPEGEncoder) Encode(img image.Image, opts Options) ([]byte, error) {
	if imageio.HasAlpha(img) {
		img = imageio.Flatten(img)
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(opts.quality())); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
