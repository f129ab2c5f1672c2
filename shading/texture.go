// Package shading implements the surface appearance models: procedural and
// image-based textures, bump perturbation and the shader/BRDF library.
package shading

import (
	"math"

	"github.com/frayproject/fray/bitmap"
	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/types"
)

// The Texture interface is implemented by everything that yields a color for
// a surface point.
type Texture interface {
	Sample(ray geom.Ray, info *geom.IntersectionInfo) types.Color
}

// A procedural checkerboard in (u, v) space.
type CheckerTexture struct {
	Color1, Color2 types.Color
	Scaling        float64
}

func (t *CheckerTexture) Sample(ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	integerX := int(math.Floor(info.U * t.Scaling)) // 5.5 -> 5, -3.2 -> -4
	integerY := int(math.Floor(info.V * t.Scaling))

	if (integerX+integerY)%2 == 0 {
		return t.Color1
	}
	return t.Color2
}

// An image-sampled texture with repeat wrapping.
type BitmapTexture struct {
	Bmp     *bitmap.Bitmap
	Scaling float64
}

func (t *BitmapTexture) Sample(ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	x := int(math.Floor(info.U * t.Scaling * float64(t.Bmp.Width())))
	y := int(math.Floor(info.V * t.Scaling * float64(t.Bmp.Height())))

	x %= t.Bmp.Width()
	y %= t.Bmp.Height()
	if x < 0 {
		x += t.Bmp.Width()
	}
	if y < 0 {
		y += t.Bmp.Height()
	}

	return t.Bmp.GetPixel(x, y)
}

// Schlick's approximation of the Fresnel reflectance.
func fresnel(i, n types.Vec3, ior float64) float32 {
	f := sqr((1.0 - ior) / (1.0 + ior))
	nDotI := -n.Dot(i)
	return float32(f + (1.0-f)*math.Pow(1.0-nDotI, 5.0))
}

func sqr(x float64) float64 {
	return x * x
}

// A texture that evaluates the view-dependent Fresnel term; layered shaders
// use it as an opacity map to blend reflection over refraction.
type FresnelTexture struct {
	IOR float64
}

func (t *FresnelTexture) Sample(ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	var n types.Vec3
	var ior float64

	if ray.Dir.Dot(info.Norm) < 0 {
		// entering the object
		n = info.Norm
		ior = t.IOR
	} else {
		n = info.Norm.Neg()
		ior = 1.0 / t.IOR
	}

	f := fresnel(ray.Dir, n, ior)
	return types.RGB(f, f, f)
}

// A bump map: perturbs shading normals using the intensity differences of the
// source raster.
type BumpTexture struct {
	Bmp      *bitmap.Bitmap
	Scaling  float64
	Strength float64
}

// Differentiate the raster once so sampling a deflection is a pixel fetch.
func (t *BumpTexture) BeginRender() {
	t.Bmp.Differentiate()
}

// Bump maps contribute no color of their own.
func (t *BumpTexture) Sample(ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	return types.Color{}
}

// Fetch the (dx, dy) deflection for a surface point.
func (t *BumpTexture) GetDeflection(info *geom.IntersectionInfo) (dx, dy float64) {
	x := int(math.Floor(info.U * t.Scaling * float64(t.Bmp.Width())))
	y := int(math.Floor(info.V * t.Scaling * float64(t.Bmp.Height())))

	x %= t.Bmp.Width()
	y %= t.Bmp.Height()
	if x < 0 {
		x += t.Bmp.Width()
	}
	if y < 0 {
		y += t.Bmp.Height()
	}

	c := t.Bmp.GetPixel(x, y)
	return float64(c[0]), float64(c[1])
}

// Perturb the shading normal along the surface partial derivatives.
func (t *BumpTexture) ModifyNormal(info *geom.IntersectionInfo) {
	if info.DNdx.IsZero() && info.DNdy.IsZero() {
		return
	}
	dx, dy := t.GetDeflection(info)
	perturb := info.DNdx.Mul(dx).Add(info.DNdy.Mul(dy)).Mul(t.Strength)
	info.Norm = info.Norm.Add(perturb).Normalize()
}
