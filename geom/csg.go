package geom

import (
	"sort"

	"github.com/frayproject/fray/types"
)

// Cap on the number of intersections collected along a single ray per CSG
// child; guards against pathological self-intersecting geometry.
const maxCsgIntersections = 30

// A constructive-solid-geometry boolean combination of two child geometries.
type CsgOp struct {
	Left, Right Geometry
	// The boolean combinator over the two "inside" states.
	Op func(inLeft, inRight bool) bool
}

// Union of two solids.
func NewCsgPlus(left, right Geometry) *CsgOp {
	return &CsgOp{Left: left, Right: right, Op: func(a, b bool) bool { return a || b }}
}

// Intersection of two solids.
func NewCsgAnd(left, right Geometry) *CsgOp {
	return &CsgOp{Left: left, Right: right, Op: func(a, b bool) bool { return a && b }}
}

// Difference of two solids (left minus right).
func NewCsgMinus(left, right Geometry) *CsgOp {
	return &CsgOp{Left: left, Right: right, Op: func(a, b bool) bool { return a && !b }}
}

// Collect all intersections of the ray with a geometry, in order, by
// repeatedly advancing the ray start just past each hit. Distances are
// rewritten relative to the original ray origin.
func findAllIntersections(ray Ray, g Geometry) []IntersectionInfo {
	var result []IntersectionInfo

	origin := ray.Start
	for counter := maxCsgIntersections; counter > 0; counter-- {
		var info IntersectionInfo
		if !g.Intersect(ray, &info) {
			break
		}
		result = append(result, info)
		ray.Start = info.IP.Add(ray.Dir.Mul(1e-6))
	}

	for i := 1; i < len(result); i++ {
		result[i].Dist = types.Distance(result[i].IP, origin)
	}
	return result
}

func (op *CsgOp) Intersect(ray Ray, info *IntersectionInfo) bool {
	leftIntersections := findAllIntersections(ray, op.Left)
	rightIntersections := findAllIntersections(ray, op.Right)

	all := make([]IntersectionInfo, 0, len(leftIntersections)+len(rightIntersections))
	all = append(all, leftIntersections...)
	all = append(all, rightIntersections...)

	sort.Slice(all, func(i, j int) bool {
		return all[i].Dist < all[j].Dist
	})

	// the parity of the hit counts tells whether the ray started inside
	inLeft := len(leftIntersections)%2 == 1
	inRight := len(rightIntersections)%2 == 1

	boolResult := op.Op(inLeft, inRight)

	for i := range all {
		if all[i].Geom == op.Left {
			inLeft = !inLeft
		} else {
			inRight = !inRight
		}
		newBoolResult := op.Op(inLeft, inRight)
		if newBoolResult != boolResult {
			*info = all[i]
			info.Geom = op
			return true
		}
	}
	return false
}
