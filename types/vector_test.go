package types

import (
	"math"
	"testing"
)

func TestVectorOps(t *testing.T) {
	v := XYZ(1, 2, 3)
	v2 := XYZ(4, 5, 6)

	if got := v.Add(v2); got != (Vec3{5, 7, 9}) {
		t.Fatalf("Add: got %v", got)
	}
	if got := v.Sub(v2); got != (Vec3{-3, -3, -3}) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := v.Dot(v2); got != 32 {
		t.Fatalf("Dot: got %v", got)
	}
	if got := v.Cross(v2); got != (Vec3{-3, 6, -3}) {
		t.Fatalf("Cross: got %v", got)
	}
	if got := XYZ(3, 4, 0).Len(); got != 5 {
		t.Fatalf("Len: got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	n := XYZ(10, 0, 0).Normalize()
	if n != (Vec3{1, 0, 0}) {
		t.Fatalf("Normalize: got %v", n)
	}

	// degenerate input should not yield NaN
	z := Vec3{}.Normalize()
	if z != (Vec3{}) {
		t.Fatalf("Normalize zero vector: got %v", z)
	}
}

func TestFaceForward(t *testing.T) {
	n := XYZ(0, 1, 0)
	down := XYZ(0, -1, 0)
	up := XYZ(0, 1, 0)

	if got := FaceForward(down, n); got != n {
		t.Fatalf("FaceForward should keep n for opposing incident dir; got %v", got)
	}
	if got := FaceForward(up, n); got != n.Neg() {
		t.Fatalf("FaceForward should flip n for aligned incident dir; got %v", got)
	}
}

func TestReflect(t *testing.T) {
	i := XYZ(1, -1, 0).Normalize()
	r := Reflect(i, XYZ(0, 1, 0))
	want := XYZ(1, 1, 0).Normalize()
	if Distance(r, want) > 1e-9 {
		t.Fatalf("Reflect: got %v want %v", r, want)
	}
}

func TestRefractTIR(t *testing.T) {
	// grazing entry from a dense medium: total internal reflection
	i := XYZ(1, -0.05, 0).Normalize()
	r := Refract(i, XYZ(0, 1, 0), 1.5)
	if !r.IsZero() {
		t.Fatalf("expected TIR zero vector, got %v", r)
	}

	// straight-on refraction passes through unchanged
	r = Refract(XYZ(0, -1, 0), XYZ(0, 1, 0), 1.0/1.5)
	if Distance(r, XYZ(0, -1, 0)) > 1e-9 {
		t.Fatalf("normal incidence refraction: got %v", r)
	}
}

func TestOrthonormalSystem(t *testing.T) {
	dirs := []Vec3{
		XYZ(0, 1, 0),
		XYZ(1, 0, 0),
		XYZ(1, 2, 3).Normalize(),
		XYZ(-0.3, 0.2, 0.7).Normalize(),
	}
	for _, v := range dirs {
		b, c := OrthonormalSystem(v)
		if math.Abs(b.Len()-1) > 1e-9 || math.Abs(c.Len()-1) > 1e-9 {
			t.Fatalf("%v: b/c not unit length", v)
		}
		if math.Abs(v.Dot(b)) > 1e-9 || math.Abs(v.Dot(c)) > 1e-9 || math.Abs(b.Dot(c)) > 1e-9 {
			t.Fatalf("%v: system not orthogonal", v)
		}
	}
}

func TestMaxDimension(t *testing.T) {
	if XYZ(1, -5, 2).MaxDimension() != 1 {
		t.Fatal("expected Y")
	}
	if XYZ(1, 2, -9).MaxDimension() != 2 {
		t.Fatal("expected Z")
	}
	if XYZ(-3, 2, 1).MaxDimension() != 0 {
		t.Fatal("expected X")
	}
}
