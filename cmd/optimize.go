package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sorabito-takano/imgopt/internal/lanczos"
	"github.com/sorabito-takano/imgopt/internal/optimize"
	"github.com/spf13/cobra"
)

var (
	optWidth    float64
	optHeight   float64
	optQuality  int
	optFormat   string
	optOut      string
	optResample resampleFlags
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <input_file>",
	Short: "Resize and re-encode a single image",
	Long: `Decodes one image (jpeg, png, webp, gif, bmp, tiff), applies its EXIF
orientation, fits it inside --width/--height without upscaling and encodes it
as webp, jpeg or png. PNG and WebP input produce lossless WebP.

--format none copies the input unchanged and only reports its size.`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().Float64Var(&optWidth, "width", 0, "maximum width (0 = free)")
	optimizeCmd.Flags().Float64Var(&optHeight, "height", 0, "maximum height (0 = free)")
	optimizeCmd.Flags().IntVarP(&optQuality, "quality", "q", 80, "quality 1-100 for lossy output")
	optimizeCmd.Flags().StringVarP(&optFormat, "format", "f", "webp", "output format: webp, jpeg, png, none")
	optimizeCmd.Flags().StringVarP(&optOut, "out", "o", "", `output file ("-" = stdout, default <input>.opt.<ext>)`)
	optResample.register(optimizeCmd)
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	in := args[0]
	start := time.Now()

	strategy, order, err := optResample.parse()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	o := optimize.New(
		optimize.WithLogger(logger),
		optimize.WithResample(lanczos.WithStrategy(strategy), lanczos.WithPassOrder(order)),
	)
	res, err := o.Optimize(data, optimize.Params{
		Width:   optWidth,
		Height:  optHeight,
		Quality: optQuality,
		Format:  strings.ToLower(optFormat),
	})
	if err != nil {
		return fmt.Errorf("optimize %s: %w", in, err)
	}

	out := optOut
	if out == "" {
		out = defaultOutputPath(in, res.Format)
	}
	if out == "-" {
		_, err = cmd.OutOrStdout().Write(res.Data)
		return err
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logVerbose("%s: %dx%d -> %dx%d %s", in, res.OriginalWidth, res.OriginalHeight, res.Width, res.Height, res.Format)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s  %dx%d → %dx%d  %s → %s  (%s, %s)\n",
		out,
		res.OriginalWidth, res.OriginalHeight, res.Width, res.Height,
		formatBytes(int64(len(data))), formatBytes(int64(len(res.Data))),
		res.Format, time.Since(start).Round(time.Millisecond))
	return nil
}

// defaultOutputPath places the result next to the input:
// photo.jpg -> photo.opt.webp.
func defaultOutputPath(in, format string) string {
	ext := format
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(in), ".")
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".opt." + ext
}
