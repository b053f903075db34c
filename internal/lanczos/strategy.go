package lanczos

import "github.com/ajroetker/go-highway/hwy"

// Strategy selects how a pass accumulates taps. Every strategy produces
// byte-identical output; they differ only in speed.
type Strategy int

const (
	// Auto picks Lanes unless HWY_NO_SIMD is set. hwy runs its vectors in
	// portable base mode when the CPU level is scalar, so Lanes is always
	// available.
	Auto Strategy = iota
	// Scalar is the reference: one strided tap at a time, one channel at a
	// time, identical addressing for both axes.
	Scalar
	// Lanes accumulates taps in hwy int64 vectors: horizontal passes as a
	// dot product per output sample, vertical passes as whole-row
	// multiply-accumulates.
	Lanes
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Scalar:
		return "scalar"
	case Lanes:
		return "lanes"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a name produced by String back to a Strategy.
func ParseStrategy(name string) (Strategy, bool) {
	for _, s := range []Strategy{Auto, Scalar, Lanes} {
		if s.String() == name {
			return s, true
		}
	}
	return Auto, false
}

// DetectStrategy reports the strategy Auto resolves to on this machine.
func DetectStrategy() Strategy {
	if hwy.NoSimdEnv() || hwy.MaxLanes[int64]() < 1 {
		return Scalar
	}
	return Lanes
}

func (s Strategy) resolve() Strategy {
	if s == Scalar || s == Lanes {
		return s
	}
	return DetectStrategy()
}
