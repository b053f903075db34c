// Package optimize resizes and re-encodes a single in-memory image.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sorabito-takano/imgopt/internal/encoder"
	"github.com/sorabito-takano/imgopt/internal/imageio"
	"github.com/sorabito-takano/imgopt/internal/lanczos"
	"github.com/sorabito-takano/imgopt/internal/sizing"
)

// FormatNone returns the input bytes untouched.
const FormatNone = "none"

// DefaultMaxPixels bounds decoded images to about 100 megapixels.
const DefaultMaxPixels = 100_000_000

// ErrUnsupportedOutput is returned for output formats other than webp,
// jpeg, png and none.
var ErrUnsupportedOutput = errors.New("optimize: supported output formats are webp, jpeg, png, none")

// Params describes one optimization request.
type Params struct {
	// Width and Height bound the output; non-positive values leave the
	// dimension free. The image is never upscaled.
	Width, Height float64
	// Quality is the lossy encoding quality, 1-100.
	Quality int
	// Format is the output format: webp, jpeg, png or none.
	Format string
}

// Result is the outcome of Optimize. Data is owned by the caller.
type Result struct {
	Data           []byte
	OriginalWidth  int
	OriginalHeight int
	Width          int
	Height         int
	// Format is the output format; for "none" it is the input container.
	Format string
	// Lossless reports whether the output was encoded losslessly.
	Lossless bool
}

// Optimizer holds the encoders and resampling options shared across
// requests. It is safe for concurrent use.
type Optimizer struct {
	registry  *encoder.Registry
	logger    *slog.Logger
	resample  []lanczos.Option
	maxPixels int
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithRegistry replaces the default encoder registry.
func WithRegistry(r *encoder.Registry) Option {
	return func(o *Optimizer) { o.registry = r }
}

// WithLogger sets the logger for per-request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// WithResample forwards options to every resize.
func WithResample(opts ...lanczos.Option) Option {
	return func(o *Optimizer) { o.resample = append(o.resample, opts...) }
}

// WithMaxPixels overrides DefaultMaxPixels. Zero disables the limit.
func WithMaxPixels(n int) Option {
	return func(o *Optimizer) { o.maxPixels = n }
}

// New returns an Optimizer. Without WithRegistry it detects the installed
// encoders.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = encoder.NewRegistry()
	}
	if o.logger == nil {
		o.logger = lanczos.Logger()
	}
	return o
}

// Optimize is a convenience wrapper around New().Optimize.
func Optimize(data []byte, p Params) (*Result, error) {
	return New().Optimize(data, p)
}

// Optimize decodes data, fits it into the requested box with the Lanczos
// resampler and encodes it in p.Format. PNG and WebP input produce
// lossless WebP output.
func (o *Optimizer) Optimize(data []byte, p Params) (*Result, error) {
	switch p.Format {
	case "webp", "jpeg", "png", FormatNone:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOutput, p.Format)
	}

	img, inFormat, err := imageio.Decode(data, imageio.DecodeOptions{
		AutoRotate: true,
		MaxPixels:  o.maxPixels,
	})
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	res := &Result{
		OriginalWidth:  b.Dx(),
		OriginalHeight: b.Dy(),
		Width:          b.Dx(),
		Height:         b.Dy(),
	}

	if p.Format == FormatNone {
		res.Data = append([]byte(nil), data...)
		res.Format = string(inFormat)
		res.Lossless = true
		return res, nil
	}

	enc := o.registry.Get(p.Format)
	if enc == nil {
		return nil, fmt.Errorf("%w: %s", encoder.ErrUnavailable, p.Format)
	}

	w, h, resize := sizing.Fit(b.Dx(), b.Dy(), p.Width, p.Height)
	if resize {
		out, err := lanczos.Resize(imageio.ToBuffer(img), w, h, o.resample...)
		if err != nil {
			return nil, fmt.Errorf("resize %dx%d to %dx%d: %w", b.Dx(), b.Dy(), w, h, err)
		}
		img = imageio.ToImage(out)
		res.Width, res.Height = w, h
	}

	opts := encoder.Options{
		Quality:  p.Quality,
		Lossless: p.Format == "webp" && inFormat.Lossless(),
	}
	encoded, err := enc.Encode(img, opts)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", p.Format, err)
	}
	res.Data = encoded
	res.Format = enc.Format()
	res.Lossless = opts.Lossless || res.Format == "png"

	if o.logger.Enabled(context.Background(), slog.LevelDebug) {
		o.logger.Debug("optimized",
			slog.String("input", inFormat.String()),
			slog.String("output", res.Format),
			slog.Bool("lossless", res.Lossless),
			slog.String("from", fmt.Sprintf("%dx%d", res.OriginalWidth, res.OriginalHeight)),
			slog.String("to", fmt.Sprintf("%dx%d", res.Width, res.Height)),
			slog.Int("in_bytes", len(data)),
			slog.Int("out_bytes", len(encoded)),
		)
	}
	return res, nil
}
