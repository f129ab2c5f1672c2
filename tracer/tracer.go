// Package tracer implements the transport kernel: closest-hit dispatch over
// the scene, the deterministic Whitted-style tracer and the Monte-Carlo path
// tracer with explicit light sampling.
package tracer

import (
	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/lights"
	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/scene"
	"github.com/frayproject/fray/shading"
	"github.com/frayproject/fray/types"
)

// Paths dimmer than this carry too little energy to be worth extending.
const minPathIntensity = 0.01

// Offset for shadow/secondary ray starts.
const surfaceEps = 1e-6

// A tracing context: one per worker. It carries the scene (read-only during
// a frame) and the worker's private random generator, replacing the global
// scene singleton of a classic raytracer design.
type Context struct {
	Scene *scene.Scene
	rand  *rnd.Random
}

// Create a context for one worker.
func NewContext(s *scene.Scene, r *rnd.Random) *Context {
	return &Context{Scene: s, rand: r}
}

// The shading context surface (shaders call back through these).

func (c *Context) Lights() []lights.Light {
	return c.Scene.Lights
}

func (c *Context) AmbientLight() types.Color {
	return c.Scene.Settings.AmbientLight
}

func (c *Context) Rand() *rnd.Random {
	return c.rand
}

// True if the segment between two points is unobstructed by scene nodes.
func (c *Context) Visible(a, b types.Vec3) bool {
	var ray geom.Ray
	ray.Start = a
	ray.Dir = b.Sub(a)
	maxDist := ray.Dir.Len()
	ray.Dir = ray.Dir.Normalize()

	for _, node := range c.Scene.Nodes {
		var info geom.IntersectionInfo
		if node.Intersect(ray, &info) && info.Dist < maxDist {
			return false
		}
	}
	return true
}

// Find the nearest thing the ray hits: a node, a light, or nothing.
func (c *Context) closestHit(ray geom.Ray) (closestNode *scene.Node, closestLight lights.Light, info geom.IntersectionInfo) {
	info.Dist = types.Inf

	for _, node := range c.Scene.Nodes {
		var nodeInfo geom.IntersectionInfo
		if node.Intersect(ray, &nodeInfo) && nodeInfo.Dist < info.Dist {
			info = nodeInfo
			closestNode = node
		}
	}

	for _, light := range c.Scene.Lights {
		var lightInfo geom.IntersectionInfo
		if light.Intersect(ray, &lightInfo) && lightInfo.Dist < info.Dist {
			info = lightInfo
			closestLight = light
			closestNode = nil
		}
	}
	return closestNode, closestLight, info
}

func applyBumpMapping(node *scene.Node, info *geom.IntersectionInfo) {
	if node.Bump != nil {
		node.Bump.ModifyNormal(info)
	}
}

// Deterministic Whitted-style trace: recursion happens inside the shaders
// (reflection, refraction, layers), bounded by the depth cap.
func (c *Context) Raytrace(ray geom.Ray) types.Color {
	if ray.Depth > c.Scene.Settings.MaxTraceDepth {
		return types.Color{}
	}

	closestNode, closestLight, info := c.closestHit(ray)

	if closestLight != nil {
		return closestLight.GetColor()
	}

	if closestNode == nil {
		if c.Scene.Environment != nil {
			return c.Scene.Environment.GetEnvironment(ray.Dir)
		}
		return types.Color{}
	}

	applyBumpMapping(closestNode, &info)
	return closestNode.Shader.Shade(c, ray, &info)
}

// Try to end a path by explicitly sampling a light. The inverse of the
// combined pick-this-light/hit-this-point probability shows up as the
// (solid angle * light count) factor.
func (c *Context) explicitLightSample(ray geom.Ray, info *geom.IntersectionInfo, pathMultiplier types.Color, shader shading.Shader) types.Color {
	if len(c.Scene.Lights) == 0 {
		return types.Color{}
	}

	r := c.rand
	chosenLight := c.Scene.Lights[r.RandInt(0, len(c.Scene.Lights)-1)]

	solidAngle := chosenLight.SolidAngle(info)
	if solidAngle == 0 {
		return types.Color{}
	}

	// a random point within a random stratum on the light
	randSample := r.RandInt(0, chosenLight.GetNumSamples()-1)
	pointOnLight, _ := chosenLight.GetNthSample(randSample, info.IP, r)

	if !c.Visible(info.IP.Add(info.Norm.Mul(surfaceEps)), pointOnLight) {
		return types.Color{}
	}

	le := chosenLight.GetColor()

	wOut := pointOnLight.Sub(info.IP).Normalize()
	brdfAtPoint := shader.Eval(info, ray.Dir, wOut)
	if brdfAtPoint.Intensity() == 0 {
		return types.Color{}
	}

	probability := float32(solidAngle) * float32(len(c.Scene.Lights))
	return le.MulColor(pathMultiplier).MulColor(brdfAtPoint).Scale(probability)
}

// Monte-Carlo path trace with next-event estimation. pathMultiplier is the
// accumulated BRDF/pdf product along the path so far.
func (c *Context) Pathtrace(ray geom.Ray, pathMultiplier types.Color) types.Color {
	if ray.Depth > c.Scene.Settings.MaxTraceDepth || pathMultiplier.Intensity() < minPathIntensity {
		return types.Color{}
	}

	closestNode, closestLight, info := c.closestHit(ray)

	if closestLight != nil {
		if ray.Flags&geom.RFDiffuse != 0 {
			// light contributions after a diffuse bounce were already counted
			// by the explicit sampling step
			return types.Color{}
		}
		return closestLight.GetColor().MulColor(pathMultiplier)
	}

	if closestNode == nil {
		if c.Scene.Environment != nil {
			return c.Scene.Environment.GetEnvironment(ray.Dir).MulColor(pathMultiplier)
		}
		return types.Color{}
	}

	applyBumpMapping(closestNode, &info)
	shader := closestNode.Shader

	// "sampling the light": try to end the path at a light source
	contribLight := c.explicitLightSample(ray, &info, pathMultiplier, shader)

	// "sampling the BRDF": extend the path with one sampled bounce; the same
	// sample feeds the recursion
	wOut, brdf, pdf := shader.SpawnRay(c, &info, ray)
	if pdf == shading.PdfNotImplemented {
		return types.RGB(1, 0, 0) // the shader cannot sample; make it visible
	}
	if pdf == shading.PdfZero {
		return contribLight
	}

	contribGI := c.Pathtrace(wOut, pathMultiplier.MulColor(brdf).Scale(float32(1/pdf)))
	return contribLight.Add(contribGI)
}

// Trace a ray with whatever transport mode the scene settings call for.
func (c *Context) Trace(ray geom.Ray) types.Color {
	if c.Scene.Settings.GI {
		return c.Pathtrace(ray, types.RGB(1, 1, 1))
	}
	return c.Raytrace(ray)
}
