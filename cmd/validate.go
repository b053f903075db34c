package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sorabito-takano/imgopt/internal/hasher"
	"github.com/sorabito-takano/imgopt/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_manifest>",
	Short: "Check a manifest against the variant files it references",
	Long: `Checks manifest fields, resample metadata and placeholders, then verifies
that every variant file exists with the recorded size and content hash.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, manifestFile)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	problems := validateManifest(m, filepath.Dir(path))
	out := cmd.OutOrStdout()
	if len(problems) > 0 {
		fmt.Fprintf(out, "  ✗ %s: %d problem(s)\n", path, len(problems))
		for _, p := range problems {
			fmt.Fprintf(out, "    • %s\n", p)
		}
		return fmt.Errorf("validation failed with %d problems", len(problems))
	}

	var resized int
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			if v.Resample != nil {
				resized++
			}
		}
	}
	fmt.Fprintf(out, "  ✓ %s: %d assets, %d variants (%d resampled), sizes and hashes match\n",
		path, m.Stats.TotalAssets, m.Stats.TotalVariants, resized)
	return nil
}

// validateManifest returns one message per problem found in m. Variant
// paths are resolved against baseDir.
func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if m.Version != manifest.SupportedManifestVersion {
		report("unsupported manifest version: %d", m.Version)
	}
	for key, a := range m.Assets {
		checkAsset(key, a, m.Stats.SkippedRegress > 0, report)
		seen := map[string]bool{}
		for i, v := range a.Variants {
			where := fmt.Sprintf("asset %q variant[%d]", key, i)
			checkVariant(where, a.Original, v, report)
			if v.Path == "" {
				continue
			}
			if seen[v.Path] {
				report("%s: duplicate path %q", where, v.Path)
			}
			seen[v.Path] = true
			checkVariantFile(where, filepath.Join(baseDir, filepath.FromSlash(v.Path)), v, report)
		}
	}

	variants := 0
	for _, a := range m.Assets {
		variants += len(a.Variants)
	}
	if m.Stats.TotalAssets != len(m.Assets) {
		report("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets))
	}
	if m.Stats.TotalVariants != variants {
		report("stats.total_variants mismatch: %d != %d", m.Stats.TotalVariants, variants)
	}
	return problems
}

func checkAsset(key string, a manifest.Asset, skipped bool, report func(string, ...any)) {
	if a.Original.Width <= 0 || a.Original.Height <= 0 {
		report("asset %q: invalid original dimensions %dx%d", key, a.Original.Width, a.Original.Height)
	}
	if a.AspectRatio <= 0 {
		report("asset %q: invalid aspect ratio %.4f", key, a.AspectRatio)
	}
	if a.Placeholder != "" && !strings.HasPrefix(a.Placeholder, "data:image/png;base64,") {
		report("asset %q: malformed placeholder", key)
	}
	// Every variant of an asset can be dropped by --no-regress-size.
	if len(a.Variants) == 0 && !skipped {
		report("asset %q: no variants", key)
	}
}

// checkVariant validates the manifest fields of one variant. A variant
// whose size differs from the original must say how it was resampled.
func checkVariant(where string, orig manifest.OriginalInfo, v manifest.Variant, report func(string, ...any)) {
	if v.Format == "" {
		report("%s: empty format", where)
	}
	if v.Width <= 0 || v.Height <= 0 {
		report("%s: invalid dimensions %dx%d", where, v.Width, v.Height)
	}
	if v.Hash == "" {
		report("%s: missing hash", where)
	}
	if v.Path == "" {
		report("%s: missing path", where)
	}
	switch {
	case v.Resample == nil && (v.Width != orig.Width || v.Height != orig.Height):
		report("%s: resized without resample info", where)
	case v.Resample != nil && (v.Resample.Filter == "" || v.Resample.PassOrder == ""):
		report("%s: incomplete resample info", where)
	}
}

// checkVariantFile compares the file on disk with the recorded size and
// xxhash prefix.
func checkVariantFile(where, path string, v manifest.Variant, report func(string, ...any)) {
	f, err := os.Open(path)
	if err != nil {
		report("%s: file not found: %s", where, v.Path)
		return
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil && v.Size > 0 && info.Size() != v.Size {
		report("%s: size mismatch: manifest=%d, disk=%d", where, v.Size, info.Size())
	}
	if v.Hash == "" {
		return
	}
	sum, err := hasher.ContentHashReader(f, len(v.Hash))
	if err != nil {
		report("%s: read %s: %v", where, v.Path, err)
		return
	}
	if sum != v.Hash {
		report("%s: hash mismatch: manifest=%s, disk=%s", where, v.Hash, sum)
	}
}
