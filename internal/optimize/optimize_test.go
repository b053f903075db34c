package optimize

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/sorabito-takano/imgopt/internal/encoder"
)

// recorder stands in for cwebp so tests do not need the binary.
type recorder struct {
	opts   encoder.Options
	bounds image.Rectangle
}

func (r *recorder) Format() string    { return "webp" }
func (r *recorder) Extension() string { return "webp" }
func (r *recorder) Available() bool   { return true }
func (r *recorder) Encode(img image.Image, opts encoder.Options) ([]byte, error) {
	r.opts, r.bounds = opts, img.Bounds()
	return []byte("RIFF0000WEBP"), nil
}

func newTestOptimizer() (*Optimizer, *recorder) {
	rec := &recorder{}
	reg := encoder.NewRegistryWith(rec, &encoder.JPEGEncoder{}, &encoder.PNGEncoder{})
	return New(WithRegistry(reg)), rec
}

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func jpegFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOptimize_JPEGResize(t *testing.T) {
	o, _ := newTestOptimizer()
	res, err := o.Optimize(pngFixture(t, 200, 100), Params{Width: 50, Quality: 80, Format: "jpeg"})
	if err != nil {
		t.Fatal(err)
	}
	if res.OriginalWidth != 200 || res.OriginalHeight != 100 || res.Width != 50 || res.Height != 25 {
		t.Errorf("dims: %+v", res)
	}
	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("encoded bounds %v", b)
	}
	if res.Format != "jpeg" || res.Lossless {
		t.Errorf("format %s lossless %v", res.Format, res.Lossless)
	}
}

func TestOptimize_WebPLosslessForPNG(t *testing.T) {
	o, rec := newTestOptimizer()
	res, err := o.Optimize(pngFixture(t, 40, 40), Params{Width: 20, Height: 30, Quality: 60, Format: "webp"})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.opts.Lossless || rec.opts.Quality != 60 {
		t.Errorf("encoder options %+v", rec.opts)
	}
	if rec.bounds.Dx() != 20 || rec.bounds.Dy() != 20 {
		t.Errorf("encoded %v, want 20x20", rec.bounds)
	}
	if !res.Lossless {
		t.Error("result not marked lossless")
	}
}

func TestOptimize_WebPLossyForJPEG(t *testing.T) {
	o, rec := newTestOptimizer()
	if _, err := o.Optimize(jpegFixture(t, 64, 48), Params{Height: 24, Format: "webp"}); err != nil {
		t.Fatal(err)
	}
	if rec.opts.Lossless {
		t.Error("jpeg input encoded losslessly")
	}
	if rec.bounds.Dx() != 32 || rec.bounds.Dy() != 24 {
		t.Errorf("encoded %v, want 32x24", rec.bounds)
	}
}

func TestOptimize_NoUpscale(t *testing.T) {
	o, rec := newTestOptimizer()
	res, err := o.Optimize(pngFixture(t, 30, 20), Params{Width: 300, Format: "webp"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 30 || res.Height != 20 || rec.bounds.Dx() != 30 {
		t.Errorf("upscaled: %+v", res)
	}
}

func TestOptimize_None(t *testing.T) {
	o, _ := newTestOptimizer()
	in := pngFixture(t, 12, 9)
	res, err := o.Optimize(in, Params{Width: 4, Format: FormatNone})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(res.Data, in) {
		t.Error("none changed the bytes")
	}
	res.Data[0] = 0
	if in[0] == 0 {
		t.Error("result aliases the input")
	}
	if res.Width != 12 || res.Height != 9 || res.Format != "png" {
		t.Errorf("got %+v", res)
	}
}

func TestOptimize_Errors(t *testing.T) {
	o, _ := newTestOptimizer()
	if _, err := o.Optimize(pngFixture(t, 4, 4), Params{Format: "gif"}); !errors.Is(err, ErrUnsupportedOutput) {
		t.Errorf("gif output: %v", err)
	}
	if _, err := o.Optimize([]byte("not an image"), Params{Format: "jpeg"}); err == nil {
		t.Error("garbage input accepted")
	}

	noWebP := New(WithRegistry(encoder.NewRegistryWith(&encoder.JPEGEncoder{})))
	if _, err := noWebP.Optimize(pngFixture(t, 4, 4), Params{Format: "webp"}); !errors.Is(err, encoder.ErrUnavailable) {
		t.Errorf("missing webp encoder: %v", err)
	}

	small := New(WithRegistry(encoder.NewRegistryWith(&encoder.JPEGEncoder{})), WithMaxPixels(100))
	if _, err := small.Optimize(pngFixture(t, 20, 20), Params{Format: "jpeg"}); err == nil {
		t.Error("pixel limit not enforced")
	}
}
