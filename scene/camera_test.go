package scene

import (
	"math"
	"testing"

	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/types"
)

func TestScreenRayBasics(t *testing.T) {
	c := NewCamera()
	c.AspectRatio = 1
	c.BeginFrame(100, 100)

	center := c.GetScreenRay(50, 50, CameraCenter)
	if math.Abs(center.Dir.Len()-1) > 1e-9 {
		t.Fatalf("ray direction not unit length: %v", center.Dir)
	}
	if types.Distance(center.Dir, types.XYZ(0, 0, 1)) > 1e-9 {
		t.Fatalf("center ray of an unrotated camera: %v", center.Dir)
	}
	if center.Start != c.Pos {
		t.Fatalf("ray start: %v", center.Start)
	}

	// corners are symmetric around the view axis
	tl := c.GetScreenRay(0, 0, CameraCenter)
	br := c.GetScreenRay(100, 100, CameraCenter)
	if math.Abs(tl.Dir[0]+br.Dir[0]) > 1e-9 || math.Abs(tl.Dir[1]+br.Dir[1]) > 1e-9 {
		t.Fatalf("corner rays not symmetric: %v vs %v", tl.Dir, br.Dir)
	}
}

func TestCameraPitch(t *testing.T) {
	c := NewCamera()
	c.Pitch = -90
	c.BeginFrame(100, 100)

	down := c.GetScreenRay(50, 50, CameraCenter)
	if types.Distance(down.Dir, types.XYZ(0, -1, 0)) > 1e-9 {
		t.Fatalf("pitch -90 center ray: %v", down.Dir)
	}
}

func TestCameraYaw(t *testing.T) {
	c := NewCamera()
	c.Yaw = 90
	c.BeginFrame(100, 100)

	side := c.GetScreenRay(50, 50, CameraCenter)
	if math.Abs(math.Abs(side.Dir[0])-1) > 1e-9 {
		t.Fatalf("yaw 90 center ray should be along X: %v", side.Dir)
	}
}

func TestStereoEyeShift(t *testing.T) {
	c := NewCamera()
	c.StereoSeparation = 0.5
	c.BeginFrame(100, 100)

	left := c.GetScreenRay(50, 50, CameraLeft)
	right := c.GetScreenRay(50, 50, CameraRight)
	if types.Distance(left.Start, right.Start) < 0.9 {
		t.Fatalf("stereo eyes not separated: %v vs %v", left.Start, right.Start)
	}
	if left.Start[0] >= right.Start[0] {
		t.Fatalf("left eye is not to the left: %v vs %v", left.Start, right.Start)
	}
}

func TestDOFRayCrossesFocalPlane(t *testing.T) {
	c := NewCamera()
	c.DOF = true
	c.FocalPlaneDist = 10
	c.FNumber = 4
	c.BeginFrame(100, 100)

	r := rnd.New(3)
	// all DOF rays through the center pixel converge at the focal point
	focal := types.XYZ(0, 0, 10)
	for i := 0; i < 100; i++ {
		ray := c.GetDOFRay(50, 50, CameraCenter, r)
		// distance from the focal point to the ray line
		toFocal := focal.Sub(ray.Start)
		along := toFocal.Dot(ray.Dir)
		offAxis := toFocal.Sub(ray.Dir.Mul(along)).Len()
		if offAxis > 1e-6 {
			t.Fatalf("DOF ray misses the focal point by %v", offAxis)
		}
	}
}

func TestCameraMoveRotate(t *testing.T) {
	c := NewCamera()
	c.BeginFrame(100, 100)

	c.Move(0, 5) // forward, yaw 0: +z
	if types.Distance(c.Pos, types.XYZ(0, 0, 5)) > 1e-9 {
		t.Fatalf("forward move: %v", c.Pos)
	}

	c.Rotate(0, -200)
	if c.Pitch != -90 {
		t.Fatalf("pitch must clamp at -90, got %v", c.Pitch)
	}
}
