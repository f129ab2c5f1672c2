package scene

import (
	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/lights"
	"github.com/frayproject/fray/log"
	"github.com/frayproject/fray/shading"
)

// Implemented by scene elements that precompute data once per render.
type renderPreparer interface {
	BeginRender()
}

// Implemented by scene elements that re-derive state before each frame.
type framePreparer interface {
	BeginFrame()
}

// A fully described scene: the element pools own their members, every other
// reference (node to shader, CSG to geometry) borrows from a pool.
type Scene struct {
	Geometries []geom.Geometry
	Shaders    []shading.Shader
	Textures   []shading.Texture
	Nodes      []*Node
	SuperNodes []*Node
	Lights     []lights.Light

	Environment *CubemapEnvironment
	Camera      *Camera
	Settings    GlobalSettings

	logger log.Logger
}

// Create an empty scene with default settings.
func New() *Scene {
	return &Scene{
		Camera:   NewCamera(),
		Settings: DefaultSettings(),
		logger:   log.New("scene"),
	}
}

// Run the one-time precomputation pass over all elements (KD-trees, triangle
// derivatives, bump differentiation).
func (s *Scene) BeginRender() {
	for _, el := range s.elementsInOrder() {
		if p, ok := el.(renderPreparer); ok {
			p.BeginRender()
		}
	}
}

// Re-derive all per-frame state: the camera basis, the light caches, the
// glossiness scaling.
func (s *Scene) BeginFrame() {
	for _, el := range s.elementsInOrder() {
		if p, ok := el.(framePreparer); ok {
			p.BeginFrame()
		}
	}
	s.Camera.BeginFrame(s.Settings.FrameWidth, s.Settings.FrameHeight)
}

// All elements in their lifecycle order: lights, geometries, textures,
// shaders, nodes. The camera and the settings are handled separately.
func (s *Scene) elementsInOrder() []interface{} {
	var els []interface{}
	for _, l := range s.Lights {
		els = append(els, l)
	}
	for _, g := range s.Geometries {
		els = append(els, g)
	}
	for _, t := range s.Textures {
		els = append(els, t)
	}
	for _, sh := range s.Shaders {
		els = append(els, sh)
	}
	for _, n := range s.Nodes {
		els = append(els, n)
	}
	for _, n := range s.SuperNodes {
		els = append(els, n)
	}
	return els
}
