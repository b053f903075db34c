// Package imageio decodes encoded images and converts between image.Image
// and lanczos pixel buffers.
package imageio

import "bytes"

// Format names an encoded image container.
type Format string

const (
	FormatUnknown Format = ""
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Sniff identifies the container from its leading magic bytes.
func Sniff(data []byte) Format {
	switch {
	case len(data) < 4:
		return FormatUnknown
	case data[0] == 0xFF && data[1] == 0xD8:
		return FormatJPEG
	case bytes.HasPrefix(data, pngSignature):
		return FormatPNG
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case data[0] == 'B' && data[1] == 'M':
		return FormatBMP
	case string(data[0:4]) == "II*\x00", string(data[0:4]) == "MM\x00*":
		return FormatTIFF
	}
	return FormatUnknown
}

// Lossless reports whether the container stores pixels without loss in the
// common case. WebP is treated as lossless because re-encoding lossy WebP
// at a new quality compounds artifacts.
func (f Format) Lossless() bool {
	switch f {
	case FormatPNG, FormatWebP, FormatGIF, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}
