// Package geom provides the small 3D point and vector types shared by the
// shape generators, path queries and particle physics.
package geom

import (
	"fmt"
	"math"
)

// Point3 is a position in scene space.
type Point3 struct {
	X float64
	Y float64
	Z float64
}

// Pt returns the point (x, y, z).
func Pt(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

func (p Point3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Add translates p by v.
func (p Point3) Add(v Vec3) Point3 {
	return Point3{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// Sub computes p−o.
func (p Point3) Sub(o Point3) Vec3 {
	return Vec3{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Lerp linearly interpolates between two points.
func (p Point3) Lerp(o Point3, t float64) Point3 {
	return Point3{
		X: p.X + (o.X-p.X)*t,
		Y: p.Y + (o.Y-p.Y)*t,
		Z: p.Z + (o.Z-p.Z)*t,
	}
}

// Distance returns the Euclidean distance between two points.
func (p Point3) Distance(o Point3) float64 {
	return p.Sub(o).Len()
}

// Vec returns the vector from the origin to p.
func (p Point3) Vec() Vec3 {
	return Vec3(p)
}

// IsFinite reports whether all coordinates are neither NaN nor infinite.
func (p Point3) IsFinite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

// Centroid returns the mean of pts, or the origin for an empty slice.
func Centroid(pts []Point3) Point3 {
	if len(pts) == 0 {
		return Point3{}
	}
	var sx, sy, sz float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
		sz += p.Z
	}
	n := float64(len(pts))
	return Point3{X: sx / n, Y: sy / n, Z: sz / n}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
