package utils

import "math"

// Vec3 is a position or direction in arena space.
//
// The arena is top-down: X and Z span the ground plane, Y points up and
// Y == 0 is the ground.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the zero vector.
var Zero = Vec3{}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LenSq returns the squared length.
func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

// Len returns the length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Dist returns the distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// FlatDist is the ground-plane distance between v and o.
func (v Vec3) FlatDist(o Vec3) float64 {
	return v.Flat().Dist(o.Flat())
}

// PerpFlat returns the ground-plane perpendicular of v (rotated 90° around Y).
func (v Vec3) PerpFlat() Vec3 {
	return Vec3{X: -v.Z, Z: v.X}
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Normalize returns the unit vector in the direction of v.
//
// ok is false for zero-length or non-finite input; the returned vector is
// then Zero and must not be used for movement.
func (v Vec3) Normalize() (n Vec3, ok bool) {
	if !v.IsFinite() {
		return Zero, false
	}
	l := v.Len()
	if l < Epsilon {
		return Zero, false
	}
	return v.Scale(1 / l), true
}

// Lerp interpolates between v and o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// Yaw returns the heading of v on the ground plane, 0 facing +Z.
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.X, v.Z)
}

// Epsilon is the smallest length treated as a usable direction.
const Epsilon = 1e-9

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
