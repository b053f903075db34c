//go:build ignore

// gen_fixtures creates small test images for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "cards"), 0o755)

	// Banner (JPEG, 400x225)
	writeJPEG(filepath.Join(dir, "banner.jpg"), gradient(400, 225), 1)

	// Portrait shot stored sideways with EXIF orientation 6; upright it is
	// 225x400, so the tall side drives the pass order.
	writeJPEG(filepath.Join(dir, "portrait.jpg"), imaging.Rotate90(gradient(225, 400)), 6)

	// Cards (PNG, 200x150 each)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		writeImage(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)))
	}

	// Small alpha image
	writeImage(filepath.Join(dir, "logo.png"), alphaGradient(100, 100))

	// Grayscale checkerboard, the worst case for ringing.
	writeImage(filepath.Join(dir, "checker.png"), checker(512, 384, 8))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func checker(w, h, cell int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func writeImage(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

// writeJPEG encodes img and, for orientation > 1, splices an EXIF APP1
// segment carrying the orientation tag after the SOI marker.
func writeJPEG(path string, img image.Image, orientation uint16) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
	data := buf.Bytes()
	if orientation > 1 {
		var exif bytes.Buffer
		exif.WriteString("Exif\x00\x00II*\x00")
		for _, v := range []any{uint32(8), uint16(1), uint16(0x0112), uint16(3), uint32(1), orientation, uint16(0), uint32(0)} {
			binary.Write(&exif, binary.LittleEndian, v)
		}
		seg := []byte{0xFF, 0xE1, 0, 0}
		binary.BigEndian.PutUint16(seg[2:], uint16(exif.Len()+2))
		data = append(append(append([]byte{}, data[:2]...), append(seg, exif.Bytes()...)...), data[2:]...)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}
