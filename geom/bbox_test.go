package geom

import (
	"math"
	"testing"

	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/types"
)

func makeBox(min, max types.Vec3) BBox {
	var b BBox
	b.MakeEmpty()
	b.Add(min)
	b.Add(max)
	return b
}

func TestBBoxAddIdempotence(t *testing.T) {
	b := makeBox(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))
	before := b

	b.Add(types.XYZ(0.5, -0.5, 0))
	if b != before {
		t.Fatal("adding an inside point changed the box")
	}

	b.Add(types.XYZ(2, 0, 0))
	if !b.Inside(types.XYZ(2, 0, 0)) {
		t.Fatal("added point is not inside the box")
	}
	if b.VMax[0] != 2 {
		t.Fatalf("box did not grow: %v", b.VMax)
	}
}

func TestBBoxEmpty(t *testing.T) {
	var b BBox
	b.MakeEmpty()
	if b.Inside(types.XYZ(0, 0, 0)) {
		t.Fatal("empty box claims to contain a point")
	}
}

func TestBBoxRayTestMonotonicity(t *testing.T) {
	b := makeBox(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))
	r := rnd.New(17)

	for i := 0; i < 2000; i++ {
		start := types.XYZ(r.RandDouble()*8-4, r.RandDouble()*8-4, r.RandDouble()*8-4)
		dir := types.XYZ(r.RandDouble()*2-1, r.RandDouble()*2-1, r.RandDouble()*2-1).Normalize()
		if dir.IsZero() {
			continue
		}
		ray := NewRRay(Ray{Start: start, Dir: dir})

		dist := b.ClosestIntersection(&ray)
		if !math.IsInf(dist, 1) && !b.TestIntersect(&ray) {
			t.Fatalf("closestIntersection=%v but testIntersect is false (start=%v dir=%v)", dist, start, dir)
		}
		if b.Inside(start) && dist != 0 {
			t.Fatalf("ray starting inside the box must report distance 0, got %v", dist)
		}
	}
}

func TestBBoxRayMisses(t *testing.T) {
	b := makeBox(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))

	// moving away from the box along each axis
	for dim := 0; dim < 3; dim++ {
		start := types.Vec3{}
		start[dim] = 5
		dir := types.Vec3{}
		dir[dim] = 1
		ray := NewRRay(Ray{Start: start, Dir: dir})
		if b.TestIntersect(&ray) {
			t.Fatalf("axis %d: receding ray reported a hit", dim)
		}
	}

	// heading straight at the box
	ray := NewRRay(Ray{Start: types.XYZ(5, 0, 0), Dir: types.XYZ(-1, 0, 0)})
	if !b.TestIntersect(&ray) {
		t.Fatal("approaching ray missed")
	}
	if d := b.ClosestIntersection(&ray); math.Abs(d-4) > 1e-9 {
		t.Fatalf("closest intersection: got %v want 4", d)
	}
}

func TestBBoxIntersectTriangle(t *testing.T) {
	b := makeBox(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))

	// a vertex inside
	if !b.IntersectTriangle(types.XYZ(0, 0, 0), types.XYZ(5, 0, 0), types.XYZ(0, 5, 0)) {
		t.Fatal("triangle with a vertex inside not detected")
	}

	// an edge passing through, all vertices outside
	if !b.IntersectTriangle(types.XYZ(-5, 0, 0), types.XYZ(5, 0, 0), types.XYZ(0, 9, 0)) {
		t.Fatal("triangle edge through the box not detected")
	}

	// a large triangle slicing the box, no vertex or edge inside
	if !b.IntersectTriangle(types.XYZ(-10, 0.5, -10), types.XYZ(10, 0.5, -10), types.XYZ(0, 0.5, 10)) {
		t.Fatal("triangle plane through the box not detected")
	}

	// far away
	if b.IntersectTriangle(types.XYZ(10, 10, 10), types.XYZ(11, 10, 10), types.XYZ(10, 11, 10)) {
		t.Fatal("distant triangle reported as overlapping")
	}
}

func TestBBoxSplit(t *testing.T) {
	b := makeBox(types.XYZ(-1, -2, -3), types.XYZ(1, 2, 3))
	left, right := b.Split(AxisY, 0.5)
	if left.VMax[1] != 0.5 || right.VMin[1] != 0.5 {
		t.Fatalf("split planes wrong: %v %v", left, right)
	}
	if left.VMin != b.VMin || right.VMax != b.VMax {
		t.Fatal("split must preserve the outer extents")
	}
}
