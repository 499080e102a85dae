package pathgeom

import (
	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/geom"
)

// Lerp interpolates two equally sized point sequences index by index into
// dst, which is grown if needed, and returns it.
func Lerp(dst, a, b []geom.Point3, t float64) []geom.Point3 {
	if cap(dst) < len(a) {
		dst = make([]geom.Point3, len(a))
	}
	dst = dst[:len(a)]
	for i := range a {
		dst[i] = a[i].Lerp(b[i], t)
	}
	return dst
}

// Morph interpolates geometry a toward b by t. Both must have the same point
// count; correspondence is purely index-wise. The result takes a's layout
// for t < 0.5 and b's layout otherwise.
func Morph(a, b *Geometry, t float64) (*Geometry, error) {
	if a.Len() != b.Len() {
		return nil, errors.New(errors.CodeGeometry, "morph between %d and %d points", a.Len(), b.Len())
	}
	switch {
	case t <= 0:
		return a, nil
	case t >= 1:
		return b, nil
	}
	layout := a.layout
	if t >= 0.5 {
		layout = b.layout
	}
	return New(Lerp(nil, a.points, b.points, t), layout)
}

// WithPoints returns a geometry with g's layout over a new point sequence.
func (g *Geometry) WithPoints(points []geom.Point3) (*Geometry, error) {
	return New(points, g.layout)
}
