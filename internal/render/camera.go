package render

import (
	"math"

	"github.com/olivier-w/holoforge/internal/geom"
)

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	Distance float64
	// FOV is the vertical field of view in degrees.
	FOV float64
}

// nearPlane is the closest view distance that still projects.
const nearPlane = 1.0

// Project maps p, rotated by angle about Y, onto a w×h dot grid. It returns
// the dot position, the rotated depth (positive toward the camera) and
// whether the point is in front of the camera.
func (c Camera) Project(p geom.Point3, angle float64, w, h int) (x, y, depth float64, ok bool) {
	v := p.Vec().RotateY(angle)
	d := c.Distance - v.Z
	if d < nearPlane {
		return 0, 0, v.Z, false
	}
	f := float64(h) / 2 / math.Tan(c.FOV*math.Pi/360)
	x = float64(w)/2 + v.X*f/d
	y = float64(h)/2 - v.Y*f/d
	return x, y, v.Z, true
}

// Unproject returns the scene point on the z=0 view plane that projects to
// dot (x, y), undoing the rotation by angle.
func (c Camera) Unproject(x, y float64, angle float64, w, h int) geom.Point3 {
	f := float64(h) / 2 / math.Tan(c.FOV*math.Pi/360)
	v := geom.V((x-float64(w)/2)*c.Distance/f, -(y-float64(h)/2)*c.Distance/f, 0)
	return geom.Point3(v.RotateY(-angle))
}
