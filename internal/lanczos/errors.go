package lanczos

import "errors"

// Errors returned by the resampling core. Callers match them with errors.Is;
// returned errors carry additional context.
var (
	// ErrInvalidOutputSize is returned when a target dimension, or the input
	// extent a table is built for, is below 1.
	ErrInvalidOutputSize = errors.New("lanczos: size must be positive")

	// ErrCoefficientOverflow is returned when the coefficient table for an
	// axis would not fit in addressable memory.
	ErrCoefficientOverflow = errors.New("lanczos: coefficient table overflow")

	// ErrAllocation is returned when a pixel buffer cannot be allocated.
	ErrAllocation = errors.New("lanczos: buffer allocation failed")

	// ErrShapeMismatch is returned when buffers and coefficients disagree
	// about dimensions or channel count.
	ErrShapeMismatch = errors.New("lanczos: shape mismatch")
)
