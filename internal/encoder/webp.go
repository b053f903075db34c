package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// tool is an external command-line encoder that reads a PNG file and
// writes its output to another file.
type tool struct {
	name string
	once sync.Once
	path string
}

func (t *tool) lookup() bool {
	t.once.Do(func() {
		if p, err := exec.LookPath(t.name); err == nil {
			t.path = p
		}
	})
	return t.path != ""
}

// run writes img to a temp PNG, invokes the tool with the arguments built
// by args and returns the produced file.
func (t *tool) run(img image.Image, ext string, args func(src, dst string) []string) ([]byte, error) {
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("imgopt_%s_src_%d_*.png", t.name, id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("imgopt_%s_dst_%d_*.%s", t.name, id, ext))
	if err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := exec.Command(t.path, args(srcPath, dstPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", t.name, err, string(out))
	}
	return os.ReadFile(dstPath)
}

// WebPEncoder encodes images to WebP by shelling out to cwebp.
// This approach avoids CGO while still producing optimized WebP.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	cwebp tool
}

// NewWebPEncoder returns an encoder that shells out to cwebp.
func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{cwebp: tool{name: "cwebp"}}
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Available() bool   { return e.cwebp.lookup() }

func (e *WebPEncoder) Encode(img image.Image, opts Options) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%w: cwebp not found in PATH; install with: brew install webp", ErrUnavailable)
	}
	return e.cwebp.run(img, "webp", func(src, dst string) []string {
		args := []string{"-q", strconv.Itoa(opts.quality())}
		if opts.Lossless {
			// -exact keeps colour under fully transparent pixels.
			args = append(args, "-lossless", "-exact")
		}
		return append(args,
			"-m", "6", // compression method (0=fast, 6=best)
			"-mt",
			"-quiet",
			src,
			"-o", dst,
		)
	})
}

// AVIFEncoder encodes images to AVIF by shelling out to avifenc.
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	avifenc tool
}

// NewAVIFEncoder returns an encoder that shells out to avifenc.
func NewAVIFEncoder() *AVIFEncoder {
	return &AVIFEncoder{avifenc: tool{name: "avifenc"}}
}

func (e *AVIFEncoder) Format() string    { return "avif" }
func (e *AVIFEncoder) Extension() string { return "avif" }
func (e *AVIFEncoder) Available() bool   { return e.avifenc.lookup() }

func (e *AVIFEncoder) Encode(img image.Image, opts Options) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%w: avifenc not found in PATH; install with: brew install libavif", ErrUnavailable)
	}
	return e.avifenc.run(img, "avif", func(src, dst string) []string {
		if opts.Lossless {
			return []string{"--lossless", "--speed", "6", "-j", "all", src, dst}
		}
		// avifenc uses a different quality scale: lower = better, 0-63.
		q := strconv.Itoa(63 - (opts.quality() * 63 / 100))
		return []string{
			"--min", q,
			"--max", q,
			"--speed", "6", // 0=slowest, 10=fastest
			"-j", "all",
			src,
			dst,
		}
	})
}
