// Package vecmath holds the 3D vector helpers shared by the particle engine.
//
// Vec3 is mgl64.Vec3, so the usual Add, Sub, Mul, Dot and Len methods are
// available directly. The functions here cover what mgl64 leaves to the
// caller: a normalize that tolerates the zero vector, squared length,
// per-axis access and cloning.
package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec3 = mgl64.Vec3

// Zero is the origin.
var Zero = Vec3{}

func New(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func Add(a, b Vec3) Vec3           { return a.Add(b) }
func Sub(a, b Vec3) Vec3           { return a.Sub(b) }
func Scale(v Vec3, s float64) Vec3 { return v.Mul(s) }
func Dot(a, b Vec3) float64        { return a.Dot(b) }
func Length(v Vec3) float64        { return v.Len() }
func LengthSq(v Vec3) float64      { return v[0]*v[0] + v[1]*v[1] + v[2]*v[2] }
func Distance(a, b Vec3) float64   { return b.Sub(a).Len() }

// Clone returns a copy of v. Vec3 is an array so assignment already copies;
// Clone exists for call sites that want to make the copy explicit.
func Clone(v Vec3) Vec3 { return v }

// Normalize returns v scaled to unit length, or the zero vector when v has
// no length.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// AddScaled returns a + b*s.
func AddScaled(a, b Vec3, s float64) Vec3 {
	return Vec3{a[0] + b[0]*s, a[1] + b[1]*s, a[2] + b[2]*s}
}

func Axis(v Vec3, k int) float64 { return v[k] }

func SetAxis(v Vec3, k int, val float64) Vec3 {
	v[k] = val
	return v
}

// IsFinite reports whether every component is neither NaN nor Inf.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual compares component-wise within tol.
func ApproxEqual(a, b Vec3, tol float64) bool {
	for k := 0; k < 3; k++ {
		if math.Abs(a[k]-b[k]) > tol {
			return false
		}
	}
	return true
}
