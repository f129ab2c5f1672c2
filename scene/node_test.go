package scene

import (
	"math"
	"testing"

	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/types"
)

func TestNodeTransform(t *testing.T) {
	sphere := &geom.Sphere{O: types.XYZ(0, 0, 0), R: 1}
	n := &Node{Geometry: sphere, T: types.IdentTransform()}
	n.T.Translate(types.XYZ(10, 0, 0))

	var info geom.IntersectionInfo
	ray := geom.Ray{Start: types.XYZ(10, 0, -5), Dir: types.XYZ(0, 0, 1)}
	if !n.Intersect(ray, &info) {
		t.Fatal("translated sphere missed")
	}
	if math.Abs(info.Dist-4) > 1e-9 {
		t.Fatalf("hit distance: got %v", info.Dist)
	}
	if types.Distance(info.IP, types.XYZ(10, 0, -1)) > 1e-9 {
		t.Fatalf("hit point: got %v", info.IP)
	}
}

func TestNodeScaledDistance(t *testing.T) {
	// a sphere scaled 3x: the world-space hit distance must account for the
	// scale, not just be the object-space distance
	sphere := &geom.Sphere{O: types.XYZ(0, 0, 0), R: 1}
	n := &Node{Geometry: sphere, T: types.IdentTransform()}
	n.T.Scale(3, 3, 3)

	var info geom.IntersectionInfo
	ray := geom.Ray{Start: types.XYZ(0, 0, -9), Dir: types.XYZ(0, 0, 1)}
	if !n.Intersect(ray, &info) {
		t.Fatal("scaled sphere missed")
	}
	if math.Abs(info.Dist-6) > 1e-9 {
		t.Fatalf("world-space distance: got %v want 6", info.Dist)
	}
	if math.Abs(info.Norm.Len()-1) > 1e-9 {
		t.Fatalf("world normal not normalized: %v", info.Norm)
	}
}
