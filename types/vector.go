package types

import "math"

// A large value used as "no intersection" distance.
const Inf = 1e99

// A 3 component double-precision vector. Components are indexable so that
// axis-generic code (bbox slabs, KD splits) can loop over dimensions.
type Vec3 [3]float64

// Define a 3 component vector.
func XYZ(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Negate a vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Get vector length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Get squared vector length.
func (v Vec3) LenSqr() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize the vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < floatCmpEpsilon {
		return Vec3{}
	}
	m := 1.0 / l
	return Vec3{v[0] * m, v[1] * m, v[2] * m}
}

// Calculate dot product of 2 vectors.
func (v Vec3) Dot(v2 Vec3) float64 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// True if all components are zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Index of the component with the largest absolute value.
func (v Vec3) MaxDimension() int {
	ax := math.Abs(v[0])
	ay := math.Abs(v[1])
	az := math.Abs(v[2])
	if ax > ay && ax > az {
		return 0
	}
	if ay > az {
		return 1
	}
	return 2
}

// Distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Calc min component from two vectors.
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors.
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}

// Returns n if dot(i, n) < 0, -n otherwise. The result points against the
// incident direction i.
func FaceForward(i, n Vec3) Vec3 {
	if i.Dot(n) < 0 {
		return n
	}
	return n.Neg()
}

// Reflect the incident direction i off a surface with normal n.
func Reflect(i, n Vec3) Vec3 {
	return i.Sub(n.Mul(2 * i.Dot(n))).Normalize()
}

// Refract the incident direction i at a surface with normal n and relative
// index of refraction ior. Returns the zero vector on total internal
// reflection.
func Refract(i, n Vec3, ior float64) Vec3 {
	nDotI := i.Dot(n)
	k := 1 - ior*ior*(1-nDotI*nDotI)
	if k < 0 {
		return Vec3{}
	}
	return i.Mul(ior).Sub(n.Mul(ior*nDotI + math.Sqrt(k))).Normalize()
}

// Generate two unit vectors b and c so that (v, b, c) form an orthonormal
// system. v is assumed to be unit length.
func OrthonormalSystem(v Vec3) (b, c Vec3) {
	const third = 1.0 / 3.0
	if math.Abs(v[0]) > third {
		b = Vec3{v[1], -v[0], 0}.Normalize()
	} else {
		b = Vec3{0, v[2], -v[1]}.Normalize()
	}
	c = v.Cross(b)
	return b, c
}

// Sign of x as -1, 0 or +1.
func SignOf(x float64) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// Convert degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Convert radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
