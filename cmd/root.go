package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/sorabito-takano/imgopt/internal/lanczos"
	"github.com/spf13/cobra"
)

// manifestFile is the manifest name written into the output directory.
const manifestFile = "imgopt.manifest.json"

var (
	version = "0.1.0"
	verbose bool

	// logger is configured from --verbose before any command runs.
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "imgopt",
	Short: "Pillow-compatible Lanczos resizing and image optimization",
	Long: `imgopt resizes images with a fixed-point Lanczos3 resampler whose output
matches Pillow's, then re-encodes them as WebP, JPEG, PNG or AVIF.

Use "optimize" for a single file and "build" for a directory of assets
with content-addressed filenames and a JSON manifest.`,
	Version: version,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		lanczos.SetLogger(logger)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgopt %s (%s/%s, %s, resampler %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(), lanczos.DetectStrategy(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[imgopt] "+format+"\n", args...)
	}
}

// resampleFlags holds the lanczos tuning flags shared by build and optimize.
type resampleFlags struct {
	strategy  string
	passOrder string
}

func (f *resampleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "auto", "resampler strategy: auto, scalar, lanes")
	cmd.Flags().StringVar(&f.passOrder, "pass-order", "",
		"pass order: auto, horizontal-first (Pillow), vertical-first (default: profile or auto)")
}

func (f *resampleFlags) parse() (lanczos.Strategy, lanczos.PassOrder, error) {
	s, ok := lanczos.ParseStrategy(f.strategy)
	if !ok {
		return 0, 0, fmt.Errorf("unknown --strategy %q", f.strategy)
	}
	o := lanczos.OrderAuto
	if f.passOrder != "" {
		if o, ok = lanczos.ParsePassOrder(f.passOrder); !ok {
			return 0, 0, fmt.Errorf("unknown --pass-order %q", f.passOrder)
		}
	}
	return s, o, nil
}
