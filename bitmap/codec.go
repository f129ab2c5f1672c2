package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"golang.org/x/image/bmp"
)

// Load a bitmap from a file; the format is picked by extension (.bmp or
// .hdr). LDR pixel values are mapped to [0, 1].
func Load(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bitmap: %s", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		img, err := bmp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("bitmap: %s: %s", path, err)
		}
		return fromLDR(img), nil
	case ".hdr":
		img, err := rgbe.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("bitmap: %s: %s", path, err)
		}
		hdrImg, ok := img.(hdr.Image)
		if !ok {
			return nil, fmt.Errorf("bitmap: %s: decoder returned a non-HDR image", path)
		}
		return fromHDR(hdrImg), nil
	}
	return nil, fmt.Errorf("bitmap: %s: unsupported image format", path)
}

// Save a bitmap to a file; the format is picked by extension. BMP output is
// clamped to [0, 1] and quantized; HDR output keeps the full radiance range.
func Save(path string, b *Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bitmap: %s", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		if err := bmp.Encode(f, toLDR(b)); err != nil {
			return fmt.Errorf("bitmap: %s: %s", path, err)
		}
		return nil
	case ".hdr":
		if err := rgbe.Encode(f, toHDR(b)); err != nil {
			return fmt.Errorf("bitmap: %s: %s", path, err)
		}
		return nil
	}
	return fmt.Errorf("bitmap: %s: unsupported image format", path)
}

func fromLDR(img image.Image) *Bitmap {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.pixels[y*out.width+x] = [3]float32{
				float32(r) / 65535.0,
				float32(g) / 65535.0,
				float32(b) / 65535.0,
			}
		}
	}
	return out
}

func fromHDR(img hdr.Image) *Bitmap {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			r, g, b, _ := img.HDRAt(bounds.Min.X+x, bounds.Min.Y+y).HDRRGBA()
			out.pixels[y*out.width+x] = [3]float32{float32(r), float32(g), float32(b)}
		}
	}
	return out
}

func clampChan(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

func toLDR(b *Bitmap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			px := b.pixels[y*b.width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: clampChan(px[0]),
				G: clampChan(px[1]),
				B: clampChan(px[2]),
				A: 255,
			})
		}
	}
	return img
}

func toHDR(b *Bitmap) hdr.Image {
	img := hdr.NewRGB(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			px := b.pixels[y*b.width+x]
			img.SetRGB(x, y, hdrcolor.RGB{R: float64(px[0]), G: float64(px[1]), B: float64(px[2])})
		}
	}
	return img
}
