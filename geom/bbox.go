package geom

import (
	"math"

	"github.com/frayproject/fray/types"
)

// Split axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisNone
)

// An axis-aligned bounding box: the volume bounded by VMin and VMax so that
// any point p inside it satisfies VMin <= p <= VMax component-wise. An empty
// box is encoded as VMin=+Inf, VMax=-Inf.
type BBox struct {
	VMin, VMax types.Vec3
}

// Make the box empty (so it has no volume).
func (b *BBox) MakeEmpty() {
	b.VMin = types.XYZ(math.Inf(1), math.Inf(1), math.Inf(1))
	b.VMax = types.XYZ(math.Inf(-1), math.Inf(-1), math.Inf(-1))
}

// Add a point to the bounding box, possibly expanding it. If the point is
// inside the current box nothing happens.
func (b *BBox) Add(v types.Vec3) {
	b.VMin = types.MinVec3(b.VMin, v)
	b.VMax = types.MaxVec3(b.VMax, v)
}

// Check if a point is inside the bounding box (borders-inclusive).
func (b *BBox) Inside(v types.Vec3) bool {
	return b.VMin[0]-1e-6 <= v[0] && v[0] <= b.VMax[0]+1e-6 &&
		b.VMin[1]-1e-6 <= v[1] && v[1] <= b.VMax[1]+1e-6 &&
		b.VMin[2]-1e-6 <= v[2] && v[2] <= b.VMax[2]+1e-6
}

// Test for ray-box intersection at t >= 0.
func (b *BBox) TestIntersect(ray *RRay) bool {
	if b.Inside(ray.Start) {
		return true
	}
	for dim := 0; dim < 3; dim++ {
		if (ray.Dir[dim] < 0 && ray.Start[dim] < b.VMin[dim]) || (ray.Dir[dim] > 0 && ray.Start[dim] > b.VMax[dim]) {
			return false
		}
		if math.Abs(ray.Dir[dim]) < 1e-9 {
			continue
		}
		mul := ray.RDir[dim]
		u := 0
		if dim == 0 {
			u = 1
		}
		v := 2
		if dim == 2 {
			v = 1
		}
		// If the near wall of this slab is behind the ray we can skip the far
		// wall too: any hit through it would cross a perpendicular wall first.
		// Does not hold for rays starting inside the box, but those returned
		// early above.
		dist := (b.VMin[dim] - ray.Start[dim]) * mul
		if dist >= 0 {
			x := ray.Start[u] + ray.Dir[u]*dist
			if b.VMin[u] <= x && x <= b.VMax[u] {
				y := ray.Start[v] + ray.Dir[v]*dist
				if b.VMin[v] <= y && y <= b.VMax[v] {
					return true
				}
			}
		} else {
			continue
		}
		dist = (b.VMax[dim] - ray.Start[dim]) * mul
		if dist < 0 {
			continue
		}
		x := ray.Start[u] + ray.Dir[u]*dist
		if b.VMin[u] <= x && x <= b.VMax[u] {
			y := ray.Start[v] + ray.Dir[v]*dist
			if b.VMin[v] <= y && y <= b.VMax[v] {
				return true
			}
		}
	}
	return false
}

// Returns the distance to the closest intersection of the ray and the box, or
// +Inf if there is none. A ray starting inside the box returns 0.
func (b *BBox) ClosestIntersection(ray *RRay) float64 {
	if b.Inside(ray.Start) {
		return 0
	}
	minDist := math.Inf(1)
	for dim := 0; dim < 3; dim++ {
		if (ray.Dir[dim] < 0 && ray.Start[dim] < b.VMin[dim]) || (ray.Dir[dim] > 0 && ray.Start[dim] > b.VMax[dim]) {
			return math.Inf(1)
		}
		if math.Abs(ray.Dir[dim]) < 1e-9 {
			continue
		}
		mul := ray.RDir[dim]
		u := 0
		if dim == 0 {
			u = 1
		}
		v := 2
		if dim == 2 {
			v = 1
		}
		for _, wall := range [2]float64{b.VMin[dim], b.VMax[dim]} {
			dist := (wall - ray.Start[dim]) * mul
			if dist < 0 {
				continue
			}
			x := ray.Start[u] + ray.Dir[u]*dist
			if b.VMin[u] <= x && x <= b.VMax[u] {
				y := ray.Start[v] + ray.Dir[v]*dist
				if b.VMin[v] <= y && y <= b.VMax[v] && dist < minDist {
					minDist = dist
				}
			}
		}
	}
	return minDist
}

// Check whether the box intersects a triangle: a vertex inside the box, a
// triangle edge crossing the box, or a box edge crossing the triangle.
func (b *BBox) IntersectTriangle(a, bb, c types.Vec3) bool {
	if b.Inside(a) || b.Inside(bb) || b.Inside(c) {
		return true
	}
	t := [3]types.Vec3{a, bb, c}
	var ray RRay
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			ray.Start = t[i]
			ray.Dir = t[j].Sub(t[i])
			ray.PrepareForTracing()
			if b.TestIntersect(&ray) {
				// the edge is a segment: check it crosses the box from the
				// other side as well
				ray.Start = t[j]
				ray.Dir = t[i].Sub(t[j])
				ray.PrepareForTracing()
				if b.TestIntersect(&ray) {
					return true
				}
			}
		}
	}
	ab := bb.Sub(a)
	ac := c.Sub(a)
	abCrossAc := ab.Cross(ac)
	d := a.Dot(abCrossAc)
	for mask := 0; mask < 7; mask++ {
		for j := 0; j < 3; j++ {
			if mask&(1<<j) != 0 {
				continue
			}
			var start types.Vec3
			if mask&1 != 0 {
				start[0] = b.VMax[0]
			} else {
				start[0] = b.VMin[0]
			}
			if mask&2 != 0 {
				start[1] = b.VMax[1]
			} else {
				start[1] = b.VMin[1]
			}
			if mask&4 != 0 {
				start[2] = b.VMax[2]
			} else {
				start[2] = b.VMin[2]
			}
			end := start
			end[j] = b.VMax[j]
			if types.SignOf(start.Dot(abCrossAc)-d) != types.SignOf(end.Dot(abCrossAc)-d) {
				edge := Ray{Start: start, Dir: end.Sub(start)}
				gamma := 1.0000001
				if _, _, ok := IntersectTriangle(edge, a, bb, c, &gamma); ok {
					return true
				}
			}
		}
	}
	return false
}

// Split the box along an axis at the given position, yielding two children.
// The position must lie between VMin[axis] and VMax[axis].
func (b *BBox) Split(axis Axis, where float64) (left, right BBox) {
	left = *b
	right = *b
	left.VMax[axis] = where
	right.VMin[axis] = where
	return left, right
}
