package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sorabito-takano/imgopt/internal/encoder"
	"github.com/sorabito-takano/imgopt/internal/hasher"
	"github.com/sorabito-takano/imgopt/internal/imageio"
	"github.com/sorabito-takano/imgopt/internal/lanczos"
	"github.com/sorabito-takano/imgopt/internal/manifest"
	"github.com/sorabito-takano/imgopt/internal/sizing"
)

// PlaceholderSize bounds the preview embedded in the manifest.
const PlaceholderSize = 16

// processResult holds the result of processing a single source image.
type processResult struct {
	key            string
	asset          manifest.Asset
	err            error
	skippedRegress int // variants skipped because larger than original
}

// target is one distinct output size.
type target struct{ w, h int }

// processImage handles a single source image: decode, placeholder,
// resize, encode.
func (p *Pipeline) processImage(src Source) processResult {
	result := processResult{key: src.Key}
	cfg := p.cfg

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}

	maxPixels := cfg.MaxPixels
	if maxPixels < 0 {
		maxPixels = 0
	}
	img, format, err := imageio.Decode(data, imageio.DecodeOptions{AutoRotate: true, MaxPixels: maxPixels})
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	buf := imageio.ToBuffer(img)
	origW, origH := buf.Width, buf.Height
	hasAlpha := buf.Channels == 4

	avg, err := p.averageColor(buf)
	if err != nil {
		result.err = fmt.Errorf("average color %s: %w", src.RelPath, err)
		return result
	}
	placeholder, err := p.placeholder(buf)
	if err != nil {
		result.err = fmt.Errorf("placeholder %s: %w", src.RelPath, err)
		return result
	}

	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:    origW,
			Height:   origH,
			Format:   string(format),
			Size:     src.Size,
			HasAlpha: hasAlpha,
		},
		Placeholder: placeholder,
		AspectRatio: float64(origW) / float64(origH),
		AvgColor:    &avg,
	}

	formats := p.registry.ResolveFormats(cfg.Profile.Formats, hasAlpha)

	// Ensure output subdirectory exists.
	keyDir := filepath.Dir(src.Key)
	if err := os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755); err != nil {
		result.err = fmt.Errorf("mkdir %s: %w", keyDir, err)
		return result
	}

	seen := map[target]bool{}
	for _, w := range cfg.Profile.EffectiveWidths(origW) {
		tw, th, resize := sizing.Fit(origW, origH, float64(w), float64(cfg.Profile.BoxHeight(w)))
		t := target{tw, th}
		if seen[t] {
			continue
		}
		seen[t] = true

		// One plan per target, shared by every format.
		variant := img
		var resample *manifest.Resample
		if resize {
			plan, err := lanczos.NewPlan(origW, origH, tw, th, p.resample...)
			if err != nil {
				result.err = fmt.Errorf("plan %s@%dx%d: %w", src.Key, tw, th, err)
				return result
			}
			out, err := plan.Apply(buf)
			if err != nil {
				result.err = fmt.Errorf("resize %s@%dx%d: %w", src.Key, tw, th, err)
				return result
			}
			if p.log.Enabled(context.Background(), slog.LevelDebug) {
				p.log.Debug("resized",
					slog.String("key", src.Key),
					slog.String("size", fmt.Sprintf("%dx%d", tw, th)),
					slog.String("passes", plan.PassNames()),
					slog.String("digest", fmt.Sprintf("%016x", hasher.BufferDigest(out))))
			}
			variant = imageio.ToImage(out)
			resample = &manifest.Resample{Filter: plan.Filter().Name(), PassOrder: plan.PassNames()}
		}

		for _, f := range formats {
			enc := p.registry.Get(f)
			if enc == nil {
				continue
			}

			encoded, err := enc.Encode(variant, encoder.Options{Quality: cfg.Profile.Quality})
			if err != nil {
				p.log.Warn("encode failed",
					slog.String("key", src.Key),
					slog.String("size", fmt.Sprintf("%dx%d", tw, th)),
					slog.String("format", f),
					slog.Any("err", err))
				continue
			}

			// Skip variant if encoded size >= original (--no-regress-size).
			if cfg.NoRegressSize && int64(len(encoded)) >= src.Size {
				p.log.Debug("skip regress",
					slog.String("key", src.Key),
					slog.String("format", f),
					slog.Int("encoded", len(encoded)),
					slog.Int64("original", src.Size))
				result.skippedRegress++
				continue
			}

			contentHash := hasher.ContentHash(encoded, 16)

			// Build filename: key.w.h.hash.ext
			fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
				filepath.Base(src.Key), tw, th, contentHash[:8], enc.Extension())
			relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

			outPath := filepath.Join(cfg.OutputDir, relPath)
			if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
				result.err = fmt.Errorf("write %s: %w", relPath, err)
				return result
			}

			result.asset.Variants = append(result.asset.Variants, manifest.Variant{
				Format:   enc.Format(),
				Width:    tw,
				Height:   th,
				Size:     int64(len(encoded)),
				Hash:     contentHash,
				Path:     relPath,
				Resample: resample,
			})
		}
	}

	return result
}

// averageColor resizes the image to a single pixel. Grey images repeat
// their one channel; translucent images report the premultiplied colour.
func (p *Pipeline) averageColor(buf *lanczos.Buffer) ([3]uint8, error) {
	px, err := lanczos.Resize(buf, 1, 1, p.resample...)
	if err != nil {
		return [3]uint8{}, err
	}
	if px.Channels < 3 {
		v := px.Pix[0]
		return [3]uint8{v, v, v}, nil
	}
	return [3]uint8{px.Pix[0], px.Pix[1], px.Pix[2]}, nil
}

// placeholder returns a data URI of the image fitted into a
// PlaceholderSize box.
func (p *Pipeline) placeholder(buf *lanczos.Buffer) (string, error) {
	small := buf
	if w, h, resize := sizing.Fit(buf.Width, buf.Height, PlaceholderSize, PlaceholderSize); resize {
		var err error
		if small, err = lanczos.Resize(buf, w, h, p.resample...); err != nil {
			return "", err
		}
	}
	data, err := (&encoder.PNGEncoder{}).Encode(imageio.ToImage(small), encoder.Options{})
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
