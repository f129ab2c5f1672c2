package geom

import (
	"math"
	"testing"

	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/types"
)

func TestSphereRoundTrip(t *testing.T) {
	s := &Sphere{O: types.XYZ(1, 2, 3), R: 2.5}
	r := rnd.New(99)

	for i := 0; i < 1000; i++ {
		dir := types.XYZ(r.RandDouble()*2-1, r.RandDouble()*2-1, r.RandDouble()*2-1).Normalize()
		if dir.IsZero() {
			continue
		}
		var info IntersectionInfo
		if !s.Intersect(Ray{Start: s.O, Dir: dir}, &info) {
			t.Fatalf("ray from center missed the sphere (dir=%v)", dir)
		}
		if math.Abs(info.Dist-s.R) > 1e-9 {
			t.Fatalf("distance %v, want R=%v", info.Dist, s.R)
		}
		if types.Distance(info.Norm, dir) > 1e-9 {
			t.Fatalf("normal %v, want %v", info.Norm, dir)
		}
	}
}

func TestSphereMiss(t *testing.T) {
	s := &Sphere{O: types.XYZ(0, 0, 0), R: 1}
	var info IntersectionInfo
	if s.Intersect(Ray{Start: types.XYZ(0, 0, -5), Dir: types.XYZ(0, 1, 0)}, &info) {
		t.Fatal("tangent-free miss reported a hit")
	}
	// behind the ray
	if s.Intersect(Ray{Start: types.XYZ(0, 0, -5), Dir: types.XYZ(0, 0, -1)}, &info) {
		t.Fatal("sphere behind the ray reported a hit")
	}
}

func TestSphereInsideHit(t *testing.T) {
	s := &Sphere{O: types.XYZ(0, 0, 0), R: 2}
	var info IntersectionInfo
	if !s.Intersect(Ray{Start: types.XYZ(0.5, 0, 0), Dir: types.XYZ(1, 0, 0)}, &info) {
		t.Fatal("ray from inside missed")
	}
	if math.Abs(info.Dist-1.5) > 1e-9 {
		t.Fatalf("inside hit distance: got %v want 1.5", info.Dist)
	}
}

func TestPlaneExtent(t *testing.T) {
	p := &Plane{Height: 0, Limit: 10}
	var info IntersectionInfo

	if !p.Intersect(Ray{Start: types.XYZ(0, 5, 0), Dir: types.XYZ(0, -1, 0)}, &info) {
		t.Fatal("straight-down ray missed the plane")
	}
	if info.Dist != 5 || info.Norm != types.XYZ(0, 1, 0) {
		t.Fatalf("bad hit: dist=%v norm=%v", info.Dist, info.Norm)
	}

	// outside the extent limit
	if p.Intersect(Ray{Start: types.XYZ(11, 5, 0), Dir: types.XYZ(0, -1, 0)}, &info) {
		t.Fatal("hit beyond the plane limit")
	}

	// parallel ray
	if p.Intersect(Ray{Start: types.XYZ(0, 5, 0), Dir: types.XYZ(1, 0, 0)}, &info) {
		t.Fatal("parallel ray reported a hit")
	}
}

func TestCube(t *testing.T) {
	c := &Cube{O: types.XYZ(0, 0, 0), HalfSide: 1}
	var info IntersectionInfo

	if !c.Intersect(Ray{Start: types.XYZ(-5, 0, 0), Dir: types.XYZ(1, 0, 0)}, &info) {
		t.Fatal("ray at cube center missed")
	}
	if math.Abs(info.Dist-4) > 1e-9 {
		t.Fatalf("cube hit distance: got %v want 4", info.Dist)
	}
	if info.Norm != types.XYZ(-1, 0, 0) {
		t.Fatalf("cube normal: got %v", info.Norm)
	}

	if c.Intersect(Ray{Start: types.XYZ(-5, 2, 0), Dir: types.XYZ(1, 0, 0)}, &info) {
		t.Fatal("ray missing the cube reported a hit")
	}
}

func TestTriangleBarycentrics(t *testing.T) {
	a := types.XYZ(0, 0, 0)
	b := types.XYZ(2, 0, 0)
	c := types.XYZ(0, 2, 0)
	r := rnd.New(5)

	for i := 0; i < 1000; i++ {
		// aim at a random point on the triangle plane near the triangle
		px := r.RandDouble()*3 - 0.5
		py := r.RandDouble()*3 - 0.5
		target := types.XYZ(px, py, 0)
		start := types.XYZ(0.3, 0.4, 5)
		dir := target.Sub(start).Normalize()

		minDist := types.Inf
		l2, l3, ok := IntersectTriangle(Ray{Start: start, Dir: dir}, a, b, c, &minDist)
		if !ok {
			continue
		}
		if l2 < 0 || l3 < 0 || l2+l3 > 1+1e-9 {
			t.Fatalf("barycentrics out of range: %v %v", l2, l3)
		}
		p := a.Add(b.Sub(a).Mul(l2)).Add(c.Sub(a).Mul(l3))
		hit := start.Add(dir.Mul(minDist))
		if types.Distance(p, hit) > 1e-6 {
			t.Fatalf("barycentric reconstruction off: %v vs %v", p, hit)
		}
	}
}

func TestTriangleDegenerate(t *testing.T) {
	a := types.XYZ(0, 0, 0)
	b := types.XYZ(1, 0, 0)
	c := types.XYZ(2, 0, 0) // collinear

	minDist := types.Inf
	if _, _, ok := IntersectTriangle(Ray{Start: types.XYZ(0, 0, 5), Dir: types.XYZ(0, 0, -1)}, a, b, c, &minDist); ok {
		t.Fatal("degenerate triangle reported a hit")
	}
}
