package geom

import (
	"math"

	"github.com/frayproject/fray/types"
)

func det(a, b, c types.Vec3) float64 {
	return a.Cross(b).Dot(c)
}

// Intersect a ray with the triangle (a, b, c) by solving
// ab*l2 + ac*l3 - dir*t = start - a with Cramer's rule. On a hit closer than
// *minDist the barycentric coordinates (l2, l3) are returned and *minDist is
// updated to the hit distance. Degenerate triangles report no hit.
func IntersectTriangle(ray Ray, a, b, c types.Vec3, minDist *float64) (l2, l3 float64, ok bool) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	d := ray.Dir.Neg()

	dcr := det(ab, ac, d)
	if math.Abs(dcr) < 1e-12 {
		return 0, 0, false
	}

	h := ray.Start.Sub(a)

	lambda2 := det(h, ac, d) / dcr
	lambda3 := det(ab, h, d) / dcr
	gamma := det(ab, ac, h) / dcr

	if gamma < 0 || gamma > *minDist {
		return 0, 0, false
	}
	if lambda2 < 0 || lambda2 > 1 || lambda3 < 0 || lambda3 > 1 {
		return 0, 0, false
	}
	if 1-(lambda2+lambda3) < 0 {
		return 0, 0, false
	}

	*minDist = gamma
	return lambda2, lambda3, true
}
