// Package sizing derives output dimensions from a requested bounding box.
package sizing

// Fit computes the output size for a srcW x srcH image given a requested
// width and height. A non-positive request leaves that dimension free.
//
// With both dimensions the image is fitted inside the box, keeping its
// aspect ratio. With one dimension the other follows the aspect ratio. The
// image is never upscaled: when the source already fits, resize is false
// and the source size is returned. Arithmetic is single precision so
// truncation matches the reference tool bit for bit.
func Fit(srcW, srcH int, width, height float64) (w, h int, resize bool) {
	if srcW < 1 || srcH < 1 {
		return srcW, srcH, false
	}
	fw, fh := float32(width), float32(height)
	aspect := float32(srcW) / float32(srcH)
	w, h = int(fw), int(fh)

	switch {
	case fw > 0 && fh > 0:
		if aspect > fw/fh {
			h = int(fw / aspect)
		} else {
			w = int(fh * aspect)
		}
		if srcW <= w && srcH <= h {
			return srcW, srcH, false
		}
	case fw > 0:
		h = int(fw / aspect)
		if float32(srcW) <= fw {
			return srcW, srcH, false
		}
	case fh > 0:
		w = int(fh * aspect)
		if float32(srcH) <= fh {
			return srcW, srcH, false
		}
	default:
		return srcW, srcH, false
	}

	w, h = max(w, 1), max(h, 1)
	return w, h, w != srcW || h != srcH
}
