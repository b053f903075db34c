package lanczos

import "math"

// Filter is a separable resampling kernel.
type Filter interface {
	// Support is the radius beyond which At returns zero, in input pixels
	// at scale 1.
	Support() float64
	// At evaluates the kernel at x.
	At(x float64) float64
	// Name identifies the kernel in logs and manifests.
	Name() string
}

// lanczosA is the Lanczos window parameter; Lanczos3 uses three lobes.
const lanczosA = 3.0

// Lanczos3 is the truncated sinc kernel with a = 3, as used by Pillow's
// LANCZOS (ANTIALIAS) filter.
type Lanczos3 struct{}

// Support returns 3.
func (Lanczos3) Support() float64 { return lanczosA }

// Name returns "lanczos3".
func (Lanczos3) Name() string { return "lanczos3" }

// At returns sinc(x)*sinc(x/3) on [-3, 3) and zero elsewhere. The interval
// is half open, matching Pillow.
func (Lanczos3) At(x float64) float64 {
	if -lanczosA <= x && x < lanczosA {
		return sinc(x) * sinc(x/lanczosA)
	}
	return 0
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}
