package geom

import (
	"math"

	"github.com/frayproject/fray/types"
)

// Everything known about a ray-surface intersection.
type IntersectionInfo struct {
	// Distance from the ray start to the intersection point.
	Dist float64
	// The intersection point in world space.
	IP types.Vec3
	// The shading normal.
	Norm types.Vec3
	// Surface partial derivatives, used for bump mapping.
	DNdx, DNdy types.Vec3
	// Parametric coordinates on the surface.
	U, V float64
	// The geometry that produced the intersection.
	Geom Geometry
}

// The Geometry interface is implemented by anything a ray can hit.
type Geometry interface {
	// Intersect the geometry with a ray. On a hit, fills in the info and
	// returns true.
	Intersect(ray Ray, info *IntersectionInfo) bool
}

// An infinite-in-principle horizontal plane at y = Height, clipped to
// |x|, |z| <= Limit.
type Plane struct {
	Height float64
	Limit  float64
}

func (p *Plane) Intersect(ray Ray, info *IntersectionInfo) bool {
	if ray.Start[1] > p.Height && ray.Dir[1] >= 0 {
		return false
	}
	if ray.Start[1] < p.Height && ray.Dir[1] <= 0 {
		return false
	}

	travelByY := math.Abs(ray.Start[1] - p.Height)
	unitTravel := math.Abs(ray.Dir[1])
	scaling := travelByY / unitTravel

	ip := ray.Start.Add(ray.Dir.Mul(scaling))
	if math.Abs(ip[0]) > p.Limit || math.Abs(ip[2]) > p.Limit {
		return false
	}
	info.IP = ip
	info.Dist = types.Distance(ray.Start, ip)
	info.Norm = types.XYZ(0, 1, 0)
	info.U = ip[0]
	info.V = ip[2]
	info.Geom = p
	return true
}

// A sphere with center O and radius R.
type Sphere struct {
	O types.Vec3
	R float64
}

func (s *Sphere) Intersect(ray Ray, info *IntersectionInfo) bool {
	// t^2*|dir|^2 + t * 2*dot(dir, H) + (H.lengthSqr - R^2) = 0, H = start - O.
	// The direction is not assumed unit length; node transforms may scale it.
	h := ray.Start.Sub(s.O)
	a := ray.Dir.LenSqr()
	b := 2 * ray.Dir.Dot(h)
	c := h.LenSqr() - s.R*s.R

	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}

	sqrtDisc := math.Sqrt(disc)
	p1 := (-b + sqrtDisc) / (2 * a)
	p2 := (-b - sqrtDisc) / (2 * a)

	smaller := math.Min(p1, p2)
	larger := math.Max(p1, p2)
	if larger < 0 {
		return false
	}
	dist := larger
	if smaller >= 0 {
		dist = smaller
	}

	info.IP = ray.Start.Add(ray.Dir.Mul(dist))
	info.Dist = types.Distance(ray.Start, info.IP)
	info.Norm = info.IP.Sub(s.O).Normalize()
	info.U = (types.ToDegrees(math.Atan2(info.Norm[2], info.Norm[0])) + 180.0) / 360.0
	info.V = 1 - (types.ToDegrees(math.Asin(info.Norm[1]))+90)/180.0
	info.Geom = s
	return true
}

// An axis-aligned cube with center O and the given half side.
type Cube struct {
	O        types.Vec3
	HalfSide float64
}

func (cb *Cube) intersectSide(ray Ray, start, dir, target float64, normal types.Vec3, info *IntersectionInfo, uv func(ip types.Vec3) (u, v float64)) {
	if math.Abs(dir) < 1e-9 {
		return
	}

	// start + mult*dir = target
	mult := (target - start) / dir
	if mult < 0 {
		return
	}

	ip := ray.Start.Add(ray.Dir.Mul(mult))
	for dim := 0; dim < 3; dim++ {
		if ip[dim] < cb.O[dim]-cb.HalfSide-1e-6 || ip[dim] > cb.O[dim]+cb.HalfSide+1e-6 {
			return
		}
	}

	dist := types.Distance(ray.Start, ip)
	if dist < info.Dist {
		info.Dist = dist
		info.IP = ip
		info.Norm = normal
		info.U, info.V = uv(ip)
	}
}

func (cb *Cube) Intersect(ray Ray, info *IntersectionInfo) bool {
	info.Dist = types.Inf

	sideX := func(ip types.Vec3) (float64, float64) { return ip[1], ip[2] }
	sideY := func(ip types.Vec3) (float64, float64) { return ip[0], ip[2] }
	sideZ := func(ip types.Vec3) (float64, float64) { return ip[0], ip[1] }

	cb.intersectSide(ray, ray.Start[0], ray.Dir[0], cb.O[0]-cb.HalfSide, types.XYZ(-1, 0, 0), info, sideX)
	cb.intersectSide(ray, ray.Start[0], ray.Dir[0], cb.O[0]+cb.HalfSide, types.XYZ(+1, 0, 0), info, sideX)

	cb.intersectSide(ray, ray.Start[1], ray.Dir[1], cb.O[1]-cb.HalfSide, types.XYZ(0, -1, 0), info, sideY)
	cb.intersectSide(ray, ray.Start[1], ray.Dir[1], cb.O[1]+cb.HalfSide, types.XYZ(0, +1, 0), info, sideY)

	cb.intersectSide(ray, ray.Start[2], ray.Dir[2], cb.O[2]-cb.HalfSide, types.XYZ(0, 0, -1), info, sideZ)
	cb.intersectSide(ray, ray.Start[2], ray.Dir[2], cb.O[2]+cb.HalfSide, types.XYZ(0, 0, +1), info, sideZ)

	if info.Dist < types.Inf {
		info.Geom = cb
		return true
	}
	return false
}
