package geom

import (
	"fmt"
	"math"
)

// Vec3 is a displacement or direction in scene space.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// V returns the vector ⟨x, y, z⟩.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

var (
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

func (v Vec3) String() string {
	return fmt.Sprintf("⟨%g, %g, %g⟩", v.X, v.Y, v.Z)
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Mul scales v by f.
func (v Vec3) Mul(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the magnitude of the vector.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Len2 returns the squared magnitude of the vector.
func (v Vec3) Len2() float64 {
	return v.Dot(v)
}

// Normalize returns a vector of magnitude 1 with the same direction as v.
// The zero vector normalizes to the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// ClampLen returns v shortened to at most max.
func (v Vec3) ClampLen(max float64) Vec3 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

// IsFinite reports whether all components are neither NaN nor infinite.
func (v Vec3) IsFinite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

// RotateY rotates v by angle radians about the Y axis.
func (v Vec3) RotateY(angle float64) Vec3 {
	s, c := math.Sincos(angle)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// Basis returns two unit vectors that together with the unit tangent t form a
// right-handed orthonormal frame. The reference axis is X unless t is nearly
// parallel to it, in which case Y is used, so the frame is stable along
// smoothly varying tangents.
func Basis(t Vec3) (u, w Vec3) {
	t = t.Normalize()
	if t == (Vec3{}) {
		t = UnitY
	}
	ref := UnitX
	if math.Abs(t.X) >= 0.9 {
		ref = UnitY
	}
	u = t.Cross(ref)
	// Gram-Schmidt against t to absorb rounding error.
	u = u.Sub(t.Mul(u.Dot(t))).Normalize()
	w = t.Cross(u)
	return u, w
}
