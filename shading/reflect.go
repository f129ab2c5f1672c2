package shading

import (
	"math"

	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/types"
)

// Number of glossy reflection samples for secondary bounces; the full count
// is only spent on camera rays.
const lowGlossySamples = 5

// A mirror, optionally glossy.
type Reflection struct {
	baseShader
	Multiplier float32
	// 1 is a perfect mirror; lower values spread the reflection.
	Glossiness float64
	NumSamples int

	deflectionScaling float64
}

// Create a pure mirror.
func NewReflection(multiplier float32) *Reflection {
	return &Reflection{Multiplier: multiplier, Glossiness: 1, NumSamples: 1}
}

// Rescale the glossy deflection radius for the frame.
func (s *Reflection) BeginFrame() {
	s.deflectionScaling = math.Pow(10.0, 2-4*s.Glossiness)
}

func (s *Reflection) Shade(ctx Context, ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	n := types.FaceForward(ray.Dir, info.Norm)

	if s.Glossiness == 1 {
		newRay := ray
		newRay.Start = info.IP.Add(n.Mul(selfIntersectionEps))
		newRay.Dir = types.Reflect(ray.Dir, n)
		newRay.Depth = ray.Depth + 1

		return ctx.Raytrace(newRay).Scale(s.Multiplier)
	}

	b, c := types.OrthonormalSystem(n)
	r := ctx.Rand()

	sum := types.Color{}
	numSamplesActual := s.NumSamples
	if ray.Depth > 0 {
		numSamplesActual = lowGlossySamples
	}
	for i := 0; i < numSamplesActual; i++ {
		var reflected types.Vec3
		for {
			x, y := r.UnitDiscSample()
			x *= s.deflectionScaling
			y *= s.deflectionScaling

			newNormal := n.Add(b.Mul(x)).Add(c.Mul(y)).Normalize()
			reflected = types.Reflect(ray.Dir, newNormal)
			if reflected.Dot(n) > 0 {
				break
			}
		}

		newRay := ray
		newRay.Start = info.IP.Add(n.Mul(selfIntersectionEps))
		newRay.Dir = reflected
		newRay.Depth = ray.Depth + 1

		sum = sum.Add(ctx.Raytrace(newRay).Scale(s.Multiplier))
	}
	return sum.Scale(1 / float32(numSamplesActual))
}

func (s *Reflection) SpawnRay(ctx Context, info *geom.IntersectionInfo, rayIn geom.Ray) (geom.Ray, types.Color, float64) {
	n := types.FaceForward(rayIn.Dir, info.Norm)

	rayOut := rayIn
	rayOut.Start = info.IP.Add(n.Mul(selfIntersectionEps))
	rayOut.Dir = types.Reflect(rayIn.Dir, n)
	rayOut.Depth = rayIn.Depth + 1
	rayOut.Flags &^= geom.RFDiffuse

	return rayOut, types.RGB(s.Multiplier, s.Multiplier, s.Multiplier), 1
}

// An ideal refractive surface.
type Refraction struct {
	baseShader
	IOR        float64
	Multiplier float32
}

func (s *Refraction) Shade(ctx Context, ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	refracted, ok := s.refractDir(ray.Dir, info)
	if !ok {
		return types.Color{} // total internal reflection
	}

	n := types.FaceForward(ray.Dir, info.Norm)
	newRay := ray
	newRay.Start = info.IP.Sub(n.Mul(selfIntersectionEps))
	newRay.Dir = refracted
	newRay.Depth = ray.Depth + 1

	return ctx.Raytrace(newRay).Scale(s.Multiplier)
}

func (s *Refraction) refractDir(dir types.Vec3, info *geom.IntersectionInfo) (types.Vec3, bool) {
	n := types.FaceForward(dir, info.Norm)

	var ior float64
	if n.Dot(info.Norm) > 0 {
		// entering the object
		ior = 1.0 / s.IOR
	} else {
		// exiting
		ior = s.IOR
	}

	refracted := types.Refract(dir, n, ior)
	if refracted.IsZero() {
		return types.Vec3{}, false
	}
	return refracted, true
}

func (s *Refraction) SpawnRay(ctx Context, info *geom.IntersectionInfo, rayIn geom.Ray) (geom.Ray, types.Color, float64) {
	refracted, ok := s.refractDir(rayIn.Dir, info)
	if !ok {
		return geom.Ray{}, types.Color{}, PdfZero
	}

	n := types.FaceForward(rayIn.Dir, info.Norm)
	rayOut := rayIn
	rayOut.Start = info.IP.Sub(n.Mul(selfIntersectionEps))
	rayOut.Dir = refracted
	rayOut.Depth = rayIn.Depth + 1
	rayOut.Flags &^= geom.RFDiffuse

	return rayOut, types.RGB(s.Multiplier, s.Multiplier, s.Multiplier), 1
}

// Maximum number of layers in a layered shader.
const maxLayers = 32

type layer struct {
	shader  Shader
	opacity types.Color
	texture Texture
}

// A stack of shaders composited bottom-up through per-layer opacities.
type Layered struct {
	baseShader
	layers []layer
}

// Push a layer on top of the stack. Layers beyond the cap are ignored.
func (s *Layered) AddLayer(shader Shader, opacity types.Color, texture Texture) {
	if len(s.layers) < maxLayers {
		s.layers = append(s.layers, layer{shader: shader, opacity: opacity, texture: texture})
	}
}

// Number of layers in the stack.
func (s *Layered) NumLayers() int {
	return len(s.layers)
}

func (s *Layered) Shade(ctx Context, ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	result := types.Color{}
	white := types.RGB(1, 1, 1)
	for i := range s.layers {
		opacity := s.layers[i].opacity
		if s.layers[i].texture != nil {
			opacity = s.layers[i].texture.Sample(ray, info)
		}
		layerColor := s.layers[i].shader.Shade(ctx, ray, info)
		result = layerColor.MulColor(opacity).Add(white.Sub(opacity).MulColor(result))
	}
	return result
}
