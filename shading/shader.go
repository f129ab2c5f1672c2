package shading

import (
	"math"

	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/lights"
	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/types"
)

// Sampling pdf sentinels.
const (
	// The shader cannot sample an outgoing direction at all.
	PdfNotImplemented = -1.0
	// The sampled direction carries no energy.
	PdfZero = 0.0
)

// Offset along the normal when spawning secondary rays, to escape the
// surface we just hit.
const selfIntersectionEps = 1e-6

// The Context interface gives shaders access to the scene during shading
// without a global: the recursive tracer, visibility queries, the light list
// and the per-worker random generator.
type Context interface {
	// Trace a secondary ray and return the radiance it gathers.
	Raytrace(ray geom.Ray) types.Color

	// True if the segment between two points is unobstructed.
	Visible(a, b types.Vec3) bool

	// All lights in the scene.
	Lights() []lights.Light

	// The global ambient radiance.
	AmbientLight() types.Color

	// The random generator owned by the calling worker.
	Rand() *rnd.Random
}

// The Shader interface is the contract between the transport kernel and the
// surface reflectance models.
type Shader interface {
	// Compute the radiance toward the ray origin under deterministic
	// (Whitted-style) transport. May recurse through ctx.Raytrace.
	Shade(ctx Context, ray geom.Ray, info *geom.IntersectionInfo) types.Color

	// Evaluate the BRDF for a given incoming/outgoing direction pair; used
	// for explicit light sampling.
	Eval(info *geom.IntersectionInfo, wIn, wOut types.Vec3) types.Color

	// Sample an outgoing direction. Returns the spawned ray, the BRDF value
	// for it and the sampling pdf. A pdf of PdfZero means the sample carries
	// nothing; PdfNotImplemented means the shader cannot sample at all.
	SpawnRay(ctx Context, info *geom.IntersectionInfo, rayIn geom.Ray) (rayOut geom.Ray, brdf types.Color, pdf float64)
}

// Default implementations for shaders that only support Whitted shading.
type baseShader struct{}

func (baseShader) Eval(info *geom.IntersectionInfo, wIn, wOut types.Vec3) types.Color {
	return types.Color{}
}

func (baseShader) SpawnRay(ctx Context, info *geom.IntersectionInfo, rayIn geom.Ray) (geom.Ray, types.Color, float64) {
	return geom.Ray{}, types.Color{}, PdfNotImplemented
}

// A shader that ignores lighting altogether.
type ConstantShader struct {
	baseShader
	Color types.Color
}

func (s *ConstantShader) Shade(ctx Context, ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	return s.Color
}

// An ideal diffuse surface.
type Lambert struct {
	Color      types.Color
	DiffuseTex Texture
}

func (s *Lambert) diffuseColor(ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	diffuseColor := s.Color
	if s.DiffuseTex != nil {
		diffuseColor = diffuseColor.MulColor(s.DiffuseTex.Sample(ray, info))
	}
	return diffuseColor
}

func (s *Lambert) Shade(ctx Context, ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	diffuseColor := s.diffuseColor(ray, info)
	shadeResult := diffuseColor.MulColor(ctx.AmbientLight())

	n := types.FaceForward(ray.Dir, info.Norm)
	r := ctx.Rand()

	for _, light := range ctx.Lights() {
		numLightSamples := light.GetNumSamples()
		sum := types.Color{}

		for sampleIdx := 0; sampleIdx < numLightSamples; sampleIdx++ {
			lightPos, lightColor := light.GetNthSample(sampleIdx, info.IP, r)
			if lightColor.IsBlack() {
				continue
			}
			lightDistSqr := info.IP.Sub(lightPos).LenSqr()
			toLight := lightPos.Sub(info.IP).Normalize()

			lambertTerm := math.Max(0, toLight.Dot(n)/lightDistSqr)

			if ctx.Visible(info.IP.Add(n.Mul(selfIntersectionEps)), lightPos) {
				sum = sum.Add(diffuseColor.MulColor(lightColor).Scale(float32(lambertTerm)))
			}
		}
		shadeResult = shadeResult.Add(sum.Scale(1 / float32(numLightSamples)))
	}
	return shadeResult
}

func (s *Lambert) Eval(info *geom.IntersectionInfo, wIn, wOut types.Vec3) types.Color {
	n := types.FaceForward(wIn, info.Norm)
	cos := math.Max(0, wOut.Dot(n))
	return s.diffuseColor(geom.Ray{Dir: wIn}, info).Scale(float32(cos / math.Pi))
}

func (s *Lambert) SpawnRay(ctx Context, info *geom.IntersectionInfo, rayIn geom.Ray) (geom.Ray, types.Color, float64) {
	n := types.FaceForward(rayIn.Dir, info.Norm)

	// cosine-weighted hemisphere sample around n
	r := ctx.Rand()
	u := r.RandDouble()
	v := r.RandDouble()
	rad := math.Sqrt(u)
	theta := 2 * math.Pi * v
	b, c := types.OrthonormalSystem(n)
	dir := b.Mul(rad * math.Cos(theta)).
		Add(c.Mul(rad * math.Sin(theta))).
		Add(n.Mul(math.Sqrt(math.Max(0, 1-u)))).
		Normalize()

	rayOut := rayIn
	rayOut.Start = info.IP.Add(n.Mul(selfIntersectionEps))
	rayOut.Dir = dir
	rayOut.Depth = rayIn.Depth + 1
	rayOut.Flags |= geom.RFDiffuse

	cos := dir.Dot(n)
	brdf := s.diffuseColor(rayIn, info).Scale(float32(cos / math.Pi))
	pdf := cos / math.Pi
	return rayOut, brdf, pdf
}

// A diffuse surface with a Phong specular highlight.
type Phong struct {
	baseShader
	Color              types.Color
	DiffuseTex         Texture
	Exponent           float64
	SpecularColor      types.Color
	SpecularMultiplier float32
}

func (s *Phong) Shade(ctx Context, ray geom.Ray, info *geom.IntersectionInfo) types.Color {
	diffuseColor := s.Color
	if s.DiffuseTex != nil {
		diffuseColor = diffuseColor.MulColor(s.DiffuseTex.Sample(ray, info))
	}
	shadeResult := diffuseColor.MulColor(ctx.AmbientLight())

	n := types.FaceForward(ray.Dir, info.Norm)
	r := ctx.Rand()

	for _, light := range ctx.Lights() {
		numLightSamples := light.GetNumSamples()
		sum := types.Color{}

		for sampleIdx := 0; sampleIdx < numLightSamples; sampleIdx++ {
			lightPos, lightColor := light.GetNthSample(sampleIdx, info.IP, r)
			if lightColor.IsBlack() {
				continue
			}
			lightDistSqr := info.IP.Sub(lightPos).LenSqr()
			toLight := lightPos.Sub(info.IP).Normalize()

			lambertTerm := math.Max(0, toLight.Dot(n)/lightDistSqr)

			if !ctx.Visible(info.IP.Add(n.Mul(selfIntersectionEps)), lightPos) {
				continue
			}
			result := diffuseColor.MulColor(lightColor).Scale(float32(lambertTerm))

			fromLight := toLight.Neg()
			reflected := types.Reflect(fromLight, n)
			cosCameraReflection := ray.Dir.Neg().Dot(reflected)
			if cosCameraReflection > 0 {
				spec := lightColor.Scale(1 / float32(lightDistSqr)).
					MulColor(s.SpecularColor).
					Scale(float32(math.Pow(cosCameraReflection, s.Exponent)) * s.SpecularMultiplier)
				result = result.Add(spec)
			}
			sum = sum.Add(result)
		}
		shadeResult = shadeResult.Add(sum.Scale(1 / float32(numLightSamples)))
	}
	return shadeResult
}
