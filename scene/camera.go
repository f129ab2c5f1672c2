package scene

import (
	"math"

	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/types"
)

// Stereo eye selector for ray generation.
type WhichCamera int

const (
	CameraCenter WhichCamera = iota
	CameraLeft
	CameraRight
)

// The scene camera: a position/orientation pair plus the projection setup.
// BeginFrame derives the viewport basis; ray generation then only
// interpolates between the precomputed corner directions.
type Camera struct {
	Pos         types.Vec3
	Yaw         float64 // degrees
	Pitch       float64 // degrees
	Roll        float64 // degrees
	FOV         float64 // degrees
	AspectRatio float64

	// Depth of field
	DOF            bool
	FNumber        float64
	FocalPlaneDist float64
	NumDOFSamples  int

	// Stereoscopic rendering
	StereoSeparation float64
	LeftMask         types.Color
	RightMask        types.Color

	w, h float64

	topLeft, topRight, bottomLeft types.Vec3
	frontDir, rightDir, upDir     types.Vec3
	apertureSize                  float64
}

// Create a camera with a sane default setup.
func NewCamera() *Camera {
	return &Camera{
		FOV:            90,
		AspectRatio:    4.0 / 3.0,
		FNumber:        2.0,
		FocalPlaneDist: 10,
		NumDOFSamples:  25,
		LeftMask:       types.RGB(1, 0, 0),
		RightMask:      types.RGB(0, 1, 1),
	}
}

// Recompute the viewport basis from the camera parameters.
func (c *Camera) BeginFrame(frameWidth, frameHeight int) {
	c.w = float64(frameWidth)
	c.h = float64(frameHeight)

	cc := types.XYZ(-c.AspectRatio, 1, 1)
	b := types.XYZ(0, 0, 1)
	lenBC := cc.Sub(b).Len()
	lenWanted := math.Tan(types.ToRadians(c.FOV / 2))
	m := lenWanted / lenBC

	c.topLeft = types.XYZ(-c.AspectRatio*m, +m, 1)
	c.topRight = types.XYZ(+c.AspectRatio*m, +m, 1)
	c.bottomLeft = types.XYZ(-c.AspectRatio*m, -m, 1)

	// positive pitch looks up
	rotation := types.RotationAroundZ(types.ToRadians(c.Roll)).
		Mul(types.RotationAroundX(types.ToRadians(-c.Pitch))).
		Mul(types.RotationAroundY(types.ToRadians(c.Yaw)))
	c.topLeft = c.topLeft.MulMat(rotation)
	c.topRight = c.topRight.MulMat(rotation)
	c.bottomLeft = c.bottomLeft.MulMat(rotation)

	c.frontDir = types.XYZ(0, 0, 1).MulMat(rotation)
	c.rightDir = types.XYZ(1, 0, 0).MulMat(rotation)
	c.upDir = types.XYZ(0, 1, 0).MulMat(rotation)

	if c.FNumber > 0 {
		c.apertureSize = 2.5 / c.FNumber
	}
}

func (c *Camera) eyeShift(which WhichCamera) types.Vec3 {
	switch which {
	case CameraLeft:
		return c.rightDir.Mul(-c.StereoSeparation)
	case CameraRight:
		return c.rightDir.Mul(+c.StereoSeparation)
	}
	return types.Vec3{}
}

// Generate a primary ray through the fractional pixel (x, y).
func (c *Camera) GetScreenRay(x, y float64, which WhichCamera) geom.Ray {
	var result geom.Ray
	result.Dir = c.topLeft.
		Add(c.topRight.Sub(c.topLeft).Mul(x / c.w)).
		Add(c.bottomLeft.Sub(c.topLeft).Mul(y / c.h)).
		Normalize()
	result.Start = c.Pos.Add(c.eyeShift(which))
	return result
}

// Generate a depth-of-field primary ray: the pinhole ray is pushed through
// the focal plane and the start point is jittered on the aperture disc.
func (c *Camera) GetDOFRay(x, y float64, which WhichCamera, r *rnd.Random) geom.Ray {
	ray := c.GetScreenRay(x, y, which)

	cosAngle := ray.Dir.Dot(c.frontDir)
	target := ray.Start.Add(ray.Dir.Mul(c.FocalPlaneDist / cosAngle))

	u, v := r.UnitDiscSample()
	u *= c.apertureSize
	v *= c.apertureSize

	ray.Start = ray.Start.Add(c.rightDir.Mul(u)).Add(c.upDir.Mul(v))
	ray.Dir = target.Sub(ray.Start).Normalize()
	return ray
}

// Move the camera in its horizontal plane (fly mode).
func (c *Camera) Move(dx, dz float64) {
	yawRad := types.ToRadians(c.Yaw)
	sn, cs := math.Sin(yawRad), math.Cos(yawRad)
	c.Pos = c.Pos.Add(types.XYZ(dx*cs+dz*sn, 0, -dx*sn+dz*cs))
}

// Rotate the camera (fly mode). Pitch is clamped so the view never flips.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	if c.Pitch > 90 {
		c.Pitch = 90
	}
	if c.Pitch < -90 {
		c.Pitch = -90
	}
}
