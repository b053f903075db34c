// Package lanczos implements Pillow-compatible Lanczos3 resampling for 8-bit
// pixel buffers.
//
// Resizing is separable: coefficients are computed once per axis, quantized to
// 22 fractional bits, and applied in one or two passes. Accumulation is done
// in int64 fixed point, so results are identical regardless of tap order or
// lane strategy and match Pillow's ImagingResample byte for byte when the
// passes run in Pillow's order (see [OrderHorizontalFirst]).
//
// Pipeline:
//   - Precompute: per-axis input windows and quantized weights
//   - ResampleAxis: one strided convolution pass along a single axis
//   - Plan / Resize: pass selection, ordering and intermediate cropping
//
// A call owns every buffer it allocates; nothing is shared between calls, so
// independent resizes may run concurrently.
package lanczos
