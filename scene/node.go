// Package scene holds the scene model: the element pools, the camera, the
// cubemap environment, the global settings and the scene text parser.
package scene

import (
	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/shading"
	"github.com/frayproject/fray/types"
)

// A node instances a geometry into the world: it carries the placement
// transform, the shader and an optional bump map. Nodes without a shader are
// "super nodes": they are kept in the scene's SuperNodes pool and are not
// rendered. CSG operations take their operands from geometries, not nodes.
type Node struct {
	Name     string
	Geometry geom.Geometry
	Shader   shading.Shader
	T        types.Transform
	Bump     *shading.BumpTexture
}

// Intersect the node by taking the ray to object space, delegating to the
// geometry and bringing the results back to world space. The distance is
// recomputed in world space so it stays correct under non-unit scale.
func (n *Node) Intersect(ray geom.Ray, info *geom.IntersectionInfo) bool {
	localRay := ray
	localRay.Start = n.T.UndoPoint(ray.Start)
	localRay.Dir = n.T.UndoDir(ray.Dir)

	if !n.Geometry.Intersect(localRay, info) {
		return false
	}

	info.IP = n.T.Point(info.IP)
	info.Norm = n.T.Dir(info.Norm).Normalize()
	info.Dist = types.Distance(ray.Start, info.IP)
	return true
}
