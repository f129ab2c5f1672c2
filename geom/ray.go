// Package geom holds the ray/primitive intersection kernel: the axis-aligned
// bounding box tests, the triangle intersector, the analytic primitives, CSG
// compositions and the KD-tree accelerated mesh.
package geom

import (
	"math"

	"github.com/frayproject/fray/types"
)

// Ray flags.
const (
	// Dump verbose info while tracing this ray.
	RFDebug = 1 << iota
	// The ray bounced off a diffuse surface at least once. Used by the path
	// tracer to avoid double-counting explicitly sampled lights.
	RFDiffuse
)

// A ray and the recursion depth it was spawned at. World-space directions are
// unit length; node transforms may scale them in object space.
type Ray struct {
	Start types.Vec3
	Dir   types.Vec3
	Depth int
	Flags uint32
}

// A ray prepared for traversal: caches the component-wise reciprocal of the
// direction. Near-zero components get a large sentinel instead of Inf so the
// slab arithmetic stays finite.
type RRay struct {
	Ray
	RDir types.Vec3
}

// Create a traversal ray from a plain one.
func NewRRay(r Ray) RRay {
	rr := RRay{Ray: r}
	rr.PrepareForTracing()
	return rr
}

// Recompute the cached reciprocal direction.
func (r *RRay) PrepareForTracing() {
	for dim := 0; dim < 3; dim++ {
		if math.Abs(r.Dir[dim]) > 1e-12 {
			r.RDir[dim] = 1.0 / r.Dir[dim]
		} else {
			r.RDir[dim] = 1e12
		}
	}
}
