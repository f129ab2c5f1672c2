// Package lights implements the analytic light sources: the point light and
// the rectangular area light.
package lights

import (
	"math"

	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/types"
)

// The Light interface is implemented by all light sources.
type Light interface {
	// The emitted energy (color times power).
	GetColor() types.Color

	// Number of samples needed for a soft shadow estimate.
	GetNumSamples() int

	// Get the n-th sample point on the light as seen from the given shading
	// position, along with the light energy it carries. A zero color means
	// the light does not illuminate that position.
	GetNthSample(sampleIdx int, shadePos types.Vec3, r *rnd.Random) (samplePos types.Vec3, color types.Color)

	// Intersect a ray with the light's physical surface, if it has one.
	Intersect(ray geom.Ray, info *geom.IntersectionInfo) bool

	// The solid angle the light subtends as seen from an intersection point.
	// Zero means the light cannot be sampled explicitly from there.
	SolidAngle(info *geom.IntersectionInfo) float64

	// Recompute per-frame caches.
	BeginFrame()
}

// An infinitesimal light source emitting in all directions.
type PointLight struct {
	Pos   types.Vec3
	Color types.Color
	Power float32
}

func (l *PointLight) GetColor() types.Color {
	return l.Color.Scale(l.Power)
}

func (l *PointLight) GetNumSamples() int {
	return 1
}

func (l *PointLight) GetNthSample(sampleIdx int, shadePos types.Vec3, r *rnd.Random) (types.Vec3, types.Color) {
	return l.Pos, l.Color.Scale(l.Power)
}

// A point light has no surface.
func (l *PointLight) Intersect(ray geom.Ray, info *geom.IntersectionInfo) bool {
	return false
}

// A delta light subtends no solid angle; it cannot be importance-sampled.
func (l *PointLight) SolidAngle(info *geom.IntersectionInfo) float64 {
	return 0
}

func (l *PointLight) BeginFrame() {}

// A rectangular area light: the unit square at y=0 in its local space,
// emitting towards -Y. The transform places it in the world.
type RectLight struct {
	T     types.Transform
	XSubd int
	YSubd int
	Color types.Color
	Power float32

	center types.Vec3
	area   float64
}

func (l *RectLight) GetColor() types.Color {
	return l.Color.Scale(l.Power)
}

func (l *RectLight) GetNumSamples() int {
	return l.XSubd * l.YSubd
}

// Cache the world-space center and area of the lamp.
func (l *RectLight) BeginFrame() {
	l.center = l.T.Point(types.XYZ(0, 0, 0))
	a := l.T.Point(types.XYZ(-0.5, 0, -0.5))
	b := l.T.Point(types.XYZ(0.5, 0, -0.5))
	c := l.T.Point(types.XYZ(0.5, 0, 0.5))
	width := b.Sub(a).Len()
	height := b.Sub(c).Len()
	l.area = width * height
}

func (l *RectLight) GetNthSample(sampleIdx int, shadePos types.Vec3, r *rnd.Random) (types.Vec3, types.Color) {
	column := sampleIdx % l.XSubd
	row := sampleIdx / l.XSubd

	areaXSize := 1.0 / float64(l.XSubd)
	areaYSize := 1.0 / float64(l.YSubd)

	areaXStart := float64(column) * areaXSize
	areaYStart := float64(row) * areaYSize

	px := areaXStart + areaXSize*float64(r.RandFloat())
	py := areaYStart + areaYSize*float64(r.RandFloat())

	// a shaded point behind the lamp gets nothing
	shadedLS := l.T.UndoPoint(shadePos)
	if shadedLS[1] > 0 {
		return types.Vec3{}, types.Color{}
	}

	pointOnLight := types.XYZ(px-0.5, 0, py-0.5)

	// weight by the angle under which the lamp sees the shaded point
	cosWeight := float32(-shadedLS[1] / shadedLS.Len())
	color := l.Color.Scale(l.Power * float32(l.area) * cosWeight)

	return l.T.Point(pointOnLight), color
}

// Intersect the lamp plane (y=0 in local space). Rays starting behind the
// lamp or receding from it do not hit.
func (l *RectLight) Intersect(ray geom.Ray, info *geom.IntersectionInfo) bool {
	start := l.T.UndoPoint(ray.Start)
	dir := l.T.UndoDir(ray.Dir)

	if start[1] >= 0 {
		return false
	}
	if dir[1] <= 0 {
		return false
	}

	travel := -start[1] / dir[1]
	p := start.Add(dir.Mul(travel))
	if math.Abs(p[0]) > 0.5 || math.Abs(p[2]) > 0.5 {
		return false
	}

	info.IP = l.T.Point(p)
	info.Dist = types.Distance(ray.Start, info.IP)
	info.Norm = l.T.Dir(types.XYZ(0, -1, 0)).Normalize()
	info.U = p[0] + 0.5
	info.V = p[2] + 0.5
	return true
}

func (l *RectLight) SolidAngle(info *geom.IntersectionInfo) float64 {
	xLS := l.T.UndoPoint(info.IP)
	if xLS[1] >= 0 {
		return 0
	}
	distSqr := info.IP.Sub(l.center).LenSqr()
	return l.area / math.Max(1.0, distSqr)
}
