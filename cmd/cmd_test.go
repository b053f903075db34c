package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sorabito-takano/imgopt/internal/hasher"
	"github.com/sorabito-takano/imgopt/internal/lanczos"
	"github.com/sorabito-takano/imgopt/internal/manifest"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := map[[2]string]string{
		{"photo.jpg", "webp"}:   "photo.opt.webp",
		{"dir/a.b.png", "jpeg"}: "dir/a.b.opt.jpeg",
		{"noext", "png"}:        "noext.opt.png",
		{"scan.tiff", ""}:       "scan.opt.tiff",
	}
	for in, want := range tests {
		if got := defaultOutputPath(in[0], in[1]); got != want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}

func TestResampleFlags(t *testing.T) {
	f := resampleFlags{strategy: "scalar", passOrder: "horizontal-first"}
	s, o, err := f.parse()
	if err != nil || s != lanczos.Scalar || o != lanczos.OrderHorizontalFirst {
		t.Errorf("got %v %v %v", s, o, err)
	}
	f = resampleFlags{strategy: "auto"}
	if _, o, err := f.parse(); err != nil || o != lanczos.OrderAuto {
		t.Errorf("empty pass order: %v %v", o, err)
	}
	for _, bad := range []resampleFlags{{strategy: "gpu"}, {strategy: "auto", passOrder: "zigzag"}} {
		if _, _, err := bad.parse(); err == nil {
			t.Errorf("%+v accepted", bad)
		}
	}
}

func TestValidateManifest(t *testing.T) {
	dir := t.TempDir()
	content := make([]byte, 10)
	if err := os.WriteFile(filepath.Join(dir, "a.320.240.deadbeef.jpeg"), content, 0o644); err != nil {
		t.Fatal(err)
	}
	m := manifest.New("test")
	m.Assets["a"] = manifest.Asset{
		Original:    manifest.OriginalInfo{Width: 640, Height: 480, Format: "png", Size: 100},
		AspectRatio: 4.0 / 3,
		Variants: []manifest.Variant{{
			Format: "jpeg", Width: 320, Height: 240, Size: 10, Hash: hasher.ContentHash(content, 16),
			Path:     "a.320.240.deadbeef.jpeg",
			Resample: &manifest.Resample{Filter: "lanczos3", PassOrder: "horizontal,vertical"},
		}},
	}
	m.ComputeStats()
	if errs := validateManifest(m, dir); len(errs) != 0 {
		t.Fatalf("valid manifest rejected: %v", errs)
	}

	bad := *m
	bad.Assets = map[string]manifest.Asset{"a": m.Assets["a"]}
	a := bad.Assets["a"]
	a.Placeholder = "not a data uri"
	a.Variants = append([]manifest.Variant(nil), a.Variants...)
	a.Variants[0].Resample = nil
	a.Variants[0].Size = 11
	a.Variants[0].Hash = "deadbeefdeadbeef"
	bad.Assets["a"] = a
	errs := strings.Join(validateManifest(&bad, dir), "\n")
	for _, want := range []string{"malformed placeholder", "without resample info", "size mismatch", "hash mismatch"} {
		if !strings.Contains(errs, want) {
			t.Errorf("missing %q in:\n%s", want, errs)
		}
	}
}

func TestPrintBuildReport(t *testing.T) {
	m := manifest.New("test")
	rs := &manifest.Resample{Filter: "lanczos3", PassOrder: "horizontal,vertical"}
	m.Assets["big"] = manifest.Asset{
		Original: manifest.OriginalInfo{Width: 800, Height: 600, Size: 4000},
		Variants: []manifest.Variant{
			{Format: "webp", Width: 320, Height: 240, Size: 500, Resample: rs},
			{Format: "jpeg", Width: 320, Height: 240, Size: 700, Resample: rs},
		},
	}
	m.Assets["small"] = manifest.Asset{
		Original: manifest.OriginalInfo{Width: 100, Height: 100, Size: 300},
		Variants: []manifest.Variant{{Format: "png", Width: 100, Height: 100, Size: 200}},
	}
	m.BuildInfo = &manifest.BuildInfo{Workers: 4, Strategy: "lanes", PassOrder: "auto"}
	m.ComputeStats()

	var out bytes.Buffer
	printBuildReport(&out, m, time.Second)
	got := out.String()
	for _, want := range []string{
		"2 assets, 3 variants",
		"formats: webp, jpeg, png",
		"resampler lanes, pass order auto, 4 workers",
		"lanczos3 horizontal,vertical",
		"original size (re-encoded)",
		"heaviest originals",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "big") > strings.Index(got, "small") {
		t.Errorf("heaviest originals not sorted by size:\n%s", got)
	}
}
