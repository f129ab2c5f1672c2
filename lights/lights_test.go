package lights

import (
	"math"
	"testing"

	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/types"
)

func TestPointLight(t *testing.T) {
	l := &PointLight{Pos: types.XYZ(1, 2, 3), Color: types.RGB(1, 0.5, 0.25), Power: 4}
	l.BeginFrame()

	if l.GetNumSamples() != 1 {
		t.Fatal("point light must have exactly one sample")
	}
	pos, c := l.GetNthSample(0, types.XYZ(0, 0, 0), rnd.New(1))
	if pos != l.Pos {
		t.Fatalf("sample position: got %v", pos)
	}
	if c != types.RGB(4, 2, 1) {
		t.Fatalf("sample color: got %v", c)
	}

	var info geom.IntersectionInfo
	if l.Intersect(geom.Ray{Start: types.XYZ(0, 0, 0), Dir: types.XYZ(1, 2, 3).Normalize()}, &info) {
		t.Fatal("point light must never be hit by a ray")
	}
	if l.SolidAngle(&info) != 0 {
		t.Fatal("point light solid angle must be zero")
	}
}

// a 2x2 world-unit lamp at y=2, shining down
func downLamp() *RectLight {
	l := &RectLight{
		T:     types.IdentTransform(),
		XSubd: 4,
		YSubd: 4,
		Color: types.RGB(1, 1, 1),
		Power: 10,
	}
	l.T.Scale(2, 1, 2)
	l.T.Translate(types.XYZ(0, 2, 0))
	l.BeginFrame()
	return l
}

func TestRectLightArea(t *testing.T) {
	l := downLamp()
	if math.Abs(l.area-4) > 1e-9 {
		t.Fatalf("cached area: got %v want 4", l.area)
	}
	if types.Distance(l.center, types.XYZ(0, 2, 0)) > 1e-9 {
		t.Fatalf("cached center: got %v", l.center)
	}
}

func TestRectLightSampling(t *testing.T) {
	l := downLamp()
	r := rnd.New(7)

	shadePos := types.XYZ(0, 0, 0) // directly below the lamp
	for i := 0; i < l.GetNumSamples(); i++ {
		pos, c := l.GetNthSample(i, shadePos, r)
		if c.IsBlack() {
			t.Fatalf("sample %d: black color for a lit point", i)
		}
		if math.Abs(pos[1]-2) > 1e-9 {
			t.Fatalf("sample %d not on the lamp plane: %v", i, pos)
		}
		if math.Abs(pos[0]) > 1 || math.Abs(pos[2]) > 1 {
			t.Fatalf("sample %d outside the lamp: %v", i, pos)
		}
	}

	// stratification: sample 0 and the last sample land in distinct cells
	p0, _ := l.GetNthSample(0, shadePos, r)
	pN, _ := l.GetNthSample(l.GetNumSamples()-1, shadePos, r)
	if p0[0] >= pN[0] || p0[2] >= pN[2] {
		t.Fatalf("strata ordering violated: %v vs %v", p0, pN)
	}
}

func TestRectLightBackSide(t *testing.T) {
	l := downLamp()
	pos, c := l.GetNthSample(0, types.XYZ(0, 5, 0), rnd.New(1))
	if !c.IsBlack() || !pos.IsZero() {
		t.Fatalf("point behind the lamp must get zero sample, got %v %v", pos, c)
	}

	var info geom.IntersectionInfo
	info.IP = types.XYZ(0, 5, 0)
	if l.SolidAngle(&info) != 0 {
		t.Fatal("solid angle behind the lamp must be zero")
	}
}

func TestRectLightIntersect(t *testing.T) {
	l := downLamp()

	var info geom.IntersectionInfo
	up := geom.Ray{Start: types.XYZ(0.5, 0, 0.5), Dir: types.XYZ(0, 1, 0)}
	if !l.Intersect(up, &info) {
		t.Fatal("upward ray under the lamp missed")
	}
	if math.Abs(info.Dist-2) > 1e-9 {
		t.Fatalf("hit distance: got %v", info.Dist)
	}
	if types.Distance(info.Norm, types.XYZ(0, -1, 0)) > 1e-9 {
		t.Fatalf("lamp normal: got %v", info.Norm)
	}

	// from above: behind the lamp
	down := geom.Ray{Start: types.XYZ(0, 5, 0), Dir: types.XYZ(0, -1, 0)}
	if l.Intersect(down, &info) {
		t.Fatal("ray from behind the lamp must not hit")
	}

	// receding ray
	away := geom.Ray{Start: types.XYZ(0, 0, 0), Dir: types.XYZ(0, -1, 0)}
	if l.Intersect(away, &info) {
		t.Fatal("receding ray must not hit")
	}

	// outside the square
	miss := geom.Ray{Start: types.XYZ(3, 0, 0), Dir: types.XYZ(0, 1, 0)}
	if l.Intersect(miss, &info) {
		t.Fatal("ray outside the lamp square must not hit")
	}
}

func TestRectLightSolidAngleFalloff(t *testing.T) {
	l := downLamp()

	var near, far geom.IntersectionInfo
	near.IP = types.XYZ(0, 0, 0)
	far.IP = types.XYZ(0, -8, 0)

	saNear := l.SolidAngle(&near)
	saFar := l.SolidAngle(&far)
	if saNear <= saFar {
		t.Fatalf("solid angle must fall off with distance: near=%v far=%v", saNear, saFar)
	}
	if math.Abs(saNear-1) > 1e-9 { // area 4 / dist^2 4
		t.Fatalf("near solid angle: got %v want 1", saNear)
	}
}
