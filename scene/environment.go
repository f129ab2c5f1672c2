package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/frayproject/fray/bitmap"
	"github.com/frayproject/fray/types"
)

// Cubemap face indices.
const (
	NegX = iota
	NegY
	NegZ
	PosX
	PosY
	PosZ
)

// An environment built from the six faces of a cube around the scene.
type CubemapEnvironment struct {
	maps   [6]*bitmap.Bitmap
	loaded bool
}

// Load the six face images from a folder. Files are named negx/negy/negz/
// posx/posy/posz with either a .bmp or an .hdr extension.
func (e *CubemapEnvironment) LoadMaps(folder string) error {
	prefixes := [2]string{"neg", "pos"}
	axes := [3]string{"x", "y", "z"}
	suffixes := [2]string{".bmp", ".hdr"}

	n := 0
	for _, prefix := range prefixes {
		for _, axis := range axes {
			var face *bitmap.Bitmap
			for _, suffix := range suffixes {
				fn := filepath.Join(folder, prefix+axis+suffix)
				if _, err := os.Stat(fn); err != nil {
					continue
				}
				loaded, err := bitmap.Load(fn)
				if err == nil {
					face = loaded
					break
				}
			}
			if !face.OK() {
				return fmt.Errorf("scene: cubemap face %s%s not found in %s", prefix, axis, folder)
			}
			e.maps[n] = face
			n++
		}
	}
	e.loaded = true
	return nil
}

// Install face bitmaps directly, in NegX..PosZ order.
func (e *CubemapEnvironment) SetMaps(maps [6]*bitmap.Bitmap) {
	e.maps = maps
	e.loaded = true
}

func getSide(bmp *bitmap.Bitmap, x, y float64) types.Color {
	// X: [-1, 1] -> [0, width]; Y: [-1, 1] -> [0, height]
	ix := int((x + 1) / 2 * float64(bmp.Width()))
	iy := int((y + 1) / 2 * float64(bmp.Height()))
	if ix >= bmp.Width() {
		ix = bmp.Width() - 1
	}
	if iy >= bmp.Height() {
		iy = bmp.Height() - 1
	}
	return bmp.GetPixel(ix, iy)
}

// Sample the environment in a direction: project onto the dominant-axis cube
// face and read it with that face's orientation.
func (e *CubemapEnvironment) GetEnvironment(dir types.Vec3) types.Color {
	if !e.loaded {
		return types.Color{}
	}

	dim := dir.MaxDimension()
	onSide := dir.Mul(1 / math.Abs(dir[dim]))

	caseNum := dim
	if dir[dim] > 0 {
		caseNum += 3
	}
	switch caseNum {
	case NegX:
		return getSide(e.maps[caseNum], onSide[2], -onSide[1])
	case PosX:
		return getSide(e.maps[caseNum], -onSide[2], -onSide[1])
	case NegY:
		return getSide(e.maps[caseNum], onSide[0], -onSide[2])
	case PosY:
		return getSide(e.maps[caseNum], onSide[0], onSide[2])
	case NegZ:
		return getSide(e.maps[caseNum], onSide[0], onSide[1])
	case PosZ:
		return getSide(e.maps[caseNum], onSide[0], -onSide[1])
	}
	return types.Color{}
}
