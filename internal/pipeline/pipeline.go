package pipeline

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/sorabito-takano/imgopt/internal/encoder"
	"github.com/sorabito-takano/imgopt/internal/lanczos"
	"github.com/sorabito-takano/imgopt/internal/manifest"
	"github.com/sorabito-takano/imgopt/internal/profile"
)

// DefaultMaxPixels bounds decoded source images to about 100 megapixels.
const DefaultMaxPixels = 100_000_000

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       profile.Profile
	Workers       int
	NoRegressSize bool // skip variants larger than original
	MaxPixels     int  // 0 = DefaultMaxPixels, <0 = unlimited

	// Strategy and PassOrder are forwarded to every lanczos plan. A
	// non-empty Profile.PassOrder overrides PassOrder.
	Strategy  lanczos.Strategy
	PassOrder lanczos.PassOrder

	// Logger receives progress and per-image errors. Nil discards them.
	Logger *slog.Logger
	// Registry overrides the detected encoder set.
	Registry *encoder.Registry
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	log      *slog.Logger
	resample []lanczos.Option
}

// New creates a configured pipeline. It fails when the profile names an
// unknown pass order.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.MaxPixels == 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	if cfg.Profile.PassOrder != "" {
		o, ok := lanczos.ParsePassOrder(cfg.Profile.PassOrder)
		if !ok {
			return nil, fmt.Errorf("profile %s: unknown pass order %q", cfg.Profile.Name, cfg.Profile.PassOrder)
		}
		cfg.PassOrder = o
	}
	p := &Pipeline{
		cfg:      cfg,
		registry: cfg.Registry,
		log:      cfg.Logger,
		resample: []lanczos.Option{
			lanczos.WithStrategy(cfg.Strategy),
			lanczos.WithPassOrder(cfg.PassOrder),
		},
	}
	if p.registry == nil {
		p.registry = encoder.NewRegistry()
	}
	if p.log == nil {
		p.log = lanczos.Logger()
	}
	return p, nil
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	p.log.Debug(p.registry.String())

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.Info("scan complete", slog.Int("images", len(sources)))

	// Step 2: Process images in parallel. Each index is claimed by exactly
	// one worker, so results needs no locking.
	results := make([]processResult, len(sources))
	pool := workerpool.New(p.cfg.Workers)
	defer pool.Close()

	pool.ParallelForAtomic(len(sources), func(i int) {
		s := sources[i]
		p.log.Debug("processing", slog.String("key", s.Key))
		results[i] = p.processImage(s)
		if results[i].err == nil {
			p.log.Debug("done",
				slog.String("key", s.Key),
				slog.Int("variants", len(results[i].asset.Variants)))
		}
	})

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var failed, totalSkipped int
	for _, r := range results {
		if r.err != nil {
			failed++
			p.log.Error("image failed", slog.String("key", r.key), slog.Any("err", r.err))
			continue
		}
		m.Assets[r.key] = r.asset
		totalSkipped += r.skippedRegress
	}

	// Report errors but don't fail the entire build for partial failures.
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to process", failed)
	}
	if failed > 0 {
		p.log.Warn("partial build", slog.Int("failed", failed), slog.Int("total", len(sources)))
	}

	strategy := p.cfg.Strategy
	if strategy == lanczos.Auto {
		strategy = lanczos.DetectStrategy()
	}
	m.BuildInfo = &manifest.BuildInfo{
		Workers:   p.cfg.Workers,
		Strategy:  strategy.String(),
		PassOrder: p.cfg.PassOrder.String(),
	}
	m.Stats.SkippedRegress = totalSkipped
	m.ComputeStats()
	return m, nil
}
