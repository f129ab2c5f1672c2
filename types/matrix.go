package types

import "math"

// A 3x3 row-major matrix.
type Matrix [3][3]float64

// Create an identity matrix.
func Ident3() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Multiply a vector by a matrix (row vector convention, v' = v * m).
func (v Vec3) MulMat(m Matrix) Vec3 {
	return Vec3{
		v[0]*m[0][0] + v[1]*m[1][0] + v[2]*m[2][0],
		v[0]*m[0][1] + v[1]*m[1][1] + v[2]*m[2][1],
		v[0]*m[0][2] + v[1]*m[1][2] + v[2]*m[2][2],
	}
}

// Multiply two matrices.
func (m Matrix) Mul(m2 Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*m2[0][j] + m[i][1]*m2[1][j] + m[i][2]*m2[2][j]
		}
	}
	return out
}

// Calculate the matrix determinant.
func (m Matrix) Determinant() float64 {
	return m[0][0]*m[1][1]*m[2][2] + m[0][1]*m[1][2]*m[2][0] + m[0][2]*m[1][0]*m[2][1] -
		m[0][2]*m[1][1]*m[2][0] - m[0][1]*m[1][0]*m[2][2] - m[0][0]*m[1][2]*m[2][1]
}

// Calculate the inverse matrix. Returns the identity for singular input.
func (m Matrix) Inverse() Matrix {
	det := m.Determinant()
	if math.Abs(det) < floatCmpEpsilon {
		return Ident3()
	}
	rdet := 1.0 / det
	var out Matrix
	out[0][0] = rdet * (m[1][1]*m[2][2] - m[1][2]*m[2][1])
	out[0][1] = rdet * (m[0][2]*m[2][1] - m[0][1]*m[2][2])
	out[0][2] = rdet * (m[0][1]*m[1][2] - m[0][2]*m[1][1])
	out[1][0] = rdet * (m[1][2]*m[2][0] - m[1][0]*m[2][2])
	out[1][1] = rdet * (m[0][0]*m[2][2] - m[0][2]*m[2][0])
	out[1][2] = rdet * (m[0][2]*m[1][0] - m[0][0]*m[1][2])
	out[2][0] = rdet * (m[1][0]*m[2][1] - m[1][1]*m[2][0])
	out[2][1] = rdet * (m[0][1]*m[2][0] - m[0][0]*m[2][1])
	out[2][2] = rdet * (m[0][0]*m[1][1] - m[0][1]*m[1][0])
	return out
}

// Create a rotation matrix around the X axis.
func RotationAroundX(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Ident3()
	m[1][1] = c
	m[2][1] = -s
	m[1][2] = s
	m[2][2] = c
	return m
}

// Create a rotation matrix around the Y axis.
func RotationAroundY(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Ident3()
	m[0][0] = c
	m[2][0] = s
	m[0][2] = -s
	m[2][2] = c
	return m
}

// Create a rotation matrix around the Z axis.
func RotationAroundZ(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Ident3()
	m[0][0] = c
	m[1][0] = -s
	m[0][1] = s
	m[1][1] = c
	return m
}

// A rigid + scale transform. The inverse matrix is kept in sync by all
// mutators so that untransform operations never need to invert on the fly.
type Transform struct {
	M      Matrix
	InvM   Matrix
	Offset Vec3
}

// Create an identity transform.
func IdentTransform() Transform {
	return Transform{M: Ident3(), InvM: Ident3()}
}

// Reset the transform to identity.
func (t *Transform) Reset() {
	t.M = Ident3()
	t.InvM = Ident3()
	t.Offset = Vec3{}
}

// Apply a non-uniform scale.
func (t *Transform) Scale(x, y, z float64) {
	var s Matrix
	s[0][0] = x
	s[1][1] = y
	s[2][2] = z
	t.M = t.M.Mul(s)
	t.InvM = t.M.Inverse()
}

// Apply a yaw/pitch/roll rotation (angles in degrees).
func (t *Transform) Rotate(yaw, pitch, roll float64) {
	rot := RotationAroundZ(ToRadians(roll)).
		Mul(RotationAroundX(ToRadians(pitch))).
		Mul(RotationAroundY(ToRadians(yaw)))
	t.M = t.M.Mul(rot)
	t.InvM = t.M.Inverse()
}

// Apply a translation.
func (t *Transform) Translate(v Vec3) {
	t.Offset = t.Offset.Add(v)
}

// Transform a point from local to world space.
func (t *Transform) Point(p Vec3) Vec3 {
	return p.MulMat(t.M).Add(t.Offset)
}

// Transform a point from world to local space.
func (t *Transform) UndoPoint(p Vec3) Vec3 {
	return p.Sub(t.Offset).MulMat(t.InvM)
}

// Transform a direction from local to world space (no translation).
func (t *Transform) Dir(d Vec3) Vec3 {
	return d.MulMat(t.M)
}

// Transform a direction from world to local space (no translation).
func (t *Transform) UndoDir(d Vec3) Vec3 {
	return d.MulMat(t.InvM)
}
