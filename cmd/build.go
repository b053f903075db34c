package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sorabito-takano/imgopt/internal/manifest"
	"github.com/sorabito-takano/imgopt/internal/pipeline"
	"github.com/sorabito-takano/imgopt/internal/profile"
	"github.com/spf13/cobra"
)

var (
	buildOutDir    string
	buildProfile   string
	buildWorkers   int
	buildWidths    []int
	buildMaxHeight int
	buildQuality   int
	buildNoRegress bool
	buildResample  resampleFlags
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Process images and generate optimized variants + manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
generates Lanczos-resized variants in multiple formats (AVIF, WebP, JPEG/PNG),
embeds a tiny PNG placeholder per asset, and writes a manifest file.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.ext`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./imgopt_out", "output directory")
	buildCmd.Flags().StringVarP(&buildProfile, "profile", "p", "telegram-webview",
		"processing profile ("+strings.Join(profile.Names(), ", ")+")")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().IntSliceVar(&buildWidths, "widths", nil, "custom widths (overrides profile)")
	buildCmd.Flags().IntVar(&buildMaxHeight, "max-height", 0, "height bound per variant (0 = profile default)")
	buildCmd.Flags().IntVarP(&buildQuality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	buildCmd.Flags().BoolVar(&buildNoRegress, "no-regress-size", true, "skip variants larger than original file")
	buildResample.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	prof := profile.Get(buildProfile)
	if buildWidths != nil {
		prof.Widths = buildWidths
	}
	if buildMaxHeight > 0 {
		prof.MaxHeight = buildMaxHeight
	}
	if buildQuality > 0 {
		prof.Quality = buildQuality
	}
	strategy, order, err := buildResample.parse()
	if err != nil {
		return err
	}
	if buildResample.passOrder != "" {
		prof.PassOrder = buildResample.passOrder
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (widths=%v, max_height=%d, quality=%d)", prof.Name, prof.Widths, prof.MaxHeight, prof.Quality)

	// Create output dir.
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Run pipeline.
	p, err := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Workers:       buildWorkers,
		NoRegressSize: buildNoRegress,
		Strategy:      strategy,
		PassOrder:     order,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write manifest.
	manifestPath := filepath.Join(absOutput, manifestFile)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(cmd.OutOrStdout(), m, time.Since(start))
	return nil
}

// assetSavings is one row of the heaviest-assets table.
type assetSavings struct {
	key     string
	in, out int64
}

// printBuildReport summarizes a finished build: totals, how variants were
// resampled, and the assets with the largest originals.
func printBuildReport(w io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	s := m.Stats
	fmt.Fprintf(w, "\n  imgopt build: %d assets, %d variants in %s\n",
		s.TotalAssets, s.TotalVariants, elapsed.Round(time.Millisecond))
	if s.TotalInputBytes > 0 {
		fmt.Fprintf(w, "  %s → %s (%.1f%% of original)\n",
			formatBytes(s.TotalInputBytes), formatBytes(s.TotalOutputBytes),
			float64(s.TotalOutputBytes)/float64(s.TotalInputBytes)*100)
	}
	if s.SkippedRegress > 0 {
		fmt.Fprintf(w, "  %d variants skipped (larger than original)\n", s.SkippedRegress)
	}
	fmt.Fprintf(w, "  formats: %s\n", strings.Join(detectOutputFormats(m), ", "))

	if bi := m.BuildInfo; bi != nil {
		fmt.Fprintf(w, "\n  resampler %s, pass order %s, %d workers\n", bi.Strategy, bi.PassOrder, bi.Workers)
	}
	keys, counts := resampleSchedules(m)
	for _, k := range keys {
		fmt.Fprintf(w, "    %-32s %4d variants\n", k, counts[k])
	}
	if copied := s.TotalVariants - sumCounts(counts); copied > 0 {
		fmt.Fprintf(w, "    %-32s %4d variants\n", "original size (re-encoded)", copied)
	}

	items := make([]assetSavings, 0, len(m.Assets))
	for key, a := range m.Assets {
		it := assetSavings{key: key, in: a.Original.Size}
		for _, v := range a.Variants {
			it.out += v.Size
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].in != items[j].in {
			return items[i].in > items[j].in
		}
		return items[i].key < items[j].key
	})
	if len(items) > 10 {
		items = items[:10]
	}
	if len(items) > 0 {
		fmt.Fprintf(w, "\n  heaviest originals:\n")
	}
	for _, it := range items {
		saved := 0.0
		if it.in > 0 {
			saved = (1 - float64(it.out)/float64(it.in)) * 100
		}
		fmt.Fprintf(w, "    %-40s %8s → %8s  (−%.0f%%)\n",
			truncKey(it.key, 40), formatBytes(it.in), formatBytes(it.out), saved)
	}

	data, _ := json.Marshal(m)
	fmt.Fprintf(w, "\n  manifest: %s (%s)\n\n", manifestFile, formatBytes(int64(len(data))))
}

// resampleSchedules counts resized variants per "filter passes" schedule
// and returns the schedules sorted.
func resampleSchedules(m *manifest.Manifest) ([]string, map[string]int) {
	counts := map[string]int{}
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			if v.Resample != nil {
				counts[v.Resample.Filter+" "+v.Resample.PassOrder]++
			}
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, counts
}

func sumCounts(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

func detectOutputFormats(m *manifest.Manifest) []string {
	set := map[string]bool{}
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			set[v.Format] = true
		}
	}
	var out []string
	for _, f := range []string{"avif", "webp", "jpeg", "png"} {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
