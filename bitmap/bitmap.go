// Package bitmap implements the two-dimensional rasters used for textures,
// cubemap faces, the virtual framebuffer and screenshots, along with codecs
// for an LDR (BMP) and an HDR (Radiance RGBE) on-disk format.
package bitmap

import "github.com/frayproject/fray/types"

// A dense raster of high-dynamic-range colors.
type Bitmap struct {
	width, height int
	pixels        []types.Color
}

// Create a new black bitmap with the given dimensions.
func New(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		pixels: make([]types.Color, width*height),
	}
}

// Get bitmap width in pixels.
func (b *Bitmap) Width() int {
	return b.width
}

// Get bitmap height in pixels.
func (b *Bitmap) Height() int {
	return b.height
}

// True if the bitmap holds pixel data.
func (b *Bitmap) OK() bool {
	return b != nil && b.width > 0 && b.height > 0
}

// Get the pixel at (x, y). Out-of-range coordinates return black.
func (b *Bitmap) GetPixel(x, y int) types.Color {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return types.Color{}
	}
	return b.pixels[y*b.width+x]
}

// Set the pixel at (x, y). Out-of-range coordinates are ignored.
func (b *Bitmap) SetPixel(x, y int, c types.Color) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pixels[y*b.width+x] = c
}

// Replace the raster with its horizontal/vertical intensity differences:
// pixel (x, y) becomes (I(x,y)-I(x+1,y), I(x,y)-I(x,y+1), 0) with wraparound
// at the edges. Bump textures run this once at begin-render so that sampling
// a deflection is a plain pixel fetch.
func (b *Bitmap) Differentiate() {
	diffed := make([]types.Color, len(b.pixels))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			here := b.GetPixel(x, y).Intensity()
			right := b.GetPixel((x+1)%b.width, y).Intensity()
			below := b.GetPixel(x, (y+1)%b.height).Intensity()
			diffed[y*b.width+x] = types.RGB(here-right, here-below, 0)
		}
	}
	b.pixels = diffed
}
