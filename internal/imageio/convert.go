package imageio

import (
	"image"
	"image/color"

	"github.com/sorabito-takano/imgopt/internal/lanczos"
	"golang.org/x/image/draw"
)

// HasAlpha reports whether any pixel of img is not fully opaque.
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

func isGray(img image.Image) bool {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return true
	}
	return false
}

// ToBuffer converts img into a pixel buffer laid out for resampling:
// grayscale images get 1 channel, opaque images 3 (RGB) and translucent
// images 4 (premultiplied RGBA).
func ToBuffer(img image.Image) *lanczos.Buffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if isGray(img) {
		g, ok := img.(*image.Gray)
		if !ok || g.Rect.Min != (image.Point{}) || g.Stride != w {
			g = image.NewGray(image.Rect(0, 0, w, h))
			draw.Draw(g, g.Rect, img, b.Min, draw.Src)
		}
		pix := make([]byte, w*h)
		copy(pix, g.Pix)
		return &lanczos.Buffer{Width: w, Height: h, Channels: 1, Pix: pix}
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*w {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}

	if HasAlpha(rgba) {
		pix := make([]byte, len(rgba.Pix))
		copy(pix, rgba.Pix)
		return &lanczos.Buffer{Width: w, Height: h, Channels: 4, Pix: pix}
	}
	pix := make([]byte, w*h*3)
	for i, j := 0, 0; i < len(rgba.Pix); i, j = i+4, j+3 {
		pix[j] = rgba.Pix[i]
		pix[j+1] = rgba.Pix[i+1]
		pix[j+2] = rgba.Pix[i+2]
	}
	return &lanczos.Buffer{Width: w, Height: h, Channels: 3, Pix: pix}
}

// ToImage wraps a buffer produced by ToBuffer (or a resize of one) as an
// image. 1 channel yields *image.Gray, 3 and 4 channels *image.RGBA. Other
// channel counts return nil.
func ToImage(buf *lanczos.Buffer) image.Image {
	r := image.Rect(0, 0, buf.Width, buf.Height)
	switch buf.Channels {
	case 1:
		g := image.NewGray(r)
		copy(g.Pix, buf.Pix)
		return g
	case 3:
		img := image.NewRGBA(r)
		for i, j := 0, 0; j < len(buf.Pix); i, j = i+4, j+3 {
			img.Pix[i] = buf.Pix[j]
			img.Pix[i+1] = buf.Pix[j+1]
			img.Pix[i+2] = buf.Pix[j+2]
			img.Pix[i+3] = 0xff
		}
		return img
	case 4:
		img := image.NewRGBA(r)
		// Resampling premultiplied data can leave a colour channel above
		// its alpha; clamp so the image stays a valid premultiplied RGBA.
		for i := 0; i < len(buf.Pix); i += 4 {
			a := buf.Pix[i+3]
			img.Pix[i] = min(buf.Pix[i], a)
			img.Pix[i+1] = min(buf.Pix[i+1], a)
			img.Pix[i+2] = min(buf.Pix[i+2], a)
			img.Pix[i+3] = a
		}
		return img
	}
	return nil
}

// Flatten returns an opaque copy of img that keeps the straight (not
// premultiplied) colour of every pixel and discards alpha.
func Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
