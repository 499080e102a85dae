package shape

import (
	"math"

	"github.com/olivier-w/holoforge/internal/geom"
)

const rungCount = 20

// dnaHelix is two intertwined open strands joined by straight rungs.
func dnaHelix(float64) []curve {
	const (
		height = 150.0
		radius = 40.0
		turns  = 4.0
	)
	strand := func(phase float64) func(u float64) geom.Point3 {
		return func(u float64) geom.Point3 {
			a := u*turns*2*math.Pi + phase
			s, c := math.Sincos(a)
			return geom.Pt(radius*c, -height/2+height*u, radius*s)
		}
	}
	s1, s2 := strand(0), strand(math.Pi)
	curves := []curve{{at: s1}, {at: s2}}
	for k := range rungCount {
		u := float64(k) / rungCount
		curves = append(curves, segment(s1(u), s2(u)))
	}
	return curves
}

// torusKnot is the (2,3) trefoil wound on a torus.
func torusKnot(float64) []curve {
	const (
		bigR = 60.0
		r    = 20.0
		p    = 2.0
		q    = 3.0
	)
	at := func(u float64) geom.Point3 {
		phi := u * 2 * math.Pi
		rr := bigR + r*math.Cos(q*phi)
		return geom.Pt(rr*math.Cos(p*phi), rr*math.Sin(p*phi), r*math.Sin(q*phi))
	}
	return []curve{{at: at, closed: true}}
}

// cube is the twelve edges of an axis-aligned cube as two closed squares and
// four open vertical edges.
func cube(float64) []curve {
	const s = 50.0
	v := [8]geom.Point3{
		geom.Pt(-s, -s, -s), geom.Pt(s, -s, -s), geom.Pt(s, s, -s), geom.Pt(-s, s, -s),
		geom.Pt(-s, -s, s), geom.Pt(s, -s, s), geom.Pt(s, s, s), geom.Pt(-s, s, s),
	}
	curves := []curve{
		polyline(true, v[0], v[1], v[2], v[3]),
		polyline(true, v[4], v[5], v[6], v[7]),
	}
	for i := range 4 {
		curves = append(curves, segment(v[i], v[i+4]))
	}
	return curves
}

// mobius is the single closed boundary of a Möbius strip plus cross lines
// spanning its width.
func mobius(float64) []curve {
	const (
		bigR = 60.0
		w    = 25.0
	)
	point := func(u, v float64) geom.Point3 {
		rr := bigR + v*math.Cos(u/2)
		return geom.Pt(rr*math.Cos(u), rr*math.Sin(u), v*math.Sin(u/2))
	}
	// The boundary passes around twice before closing.
	boundary := curve{
		at:     func(u float64) geom.Point3 { return point(u*4*math.Pi, w/2) },
		closed: true,
	}
	curves := []curve{boundary}
	for k := range rungCount {
		u := 2 * math.Pi * float64(k) / rungCount
		curves = append(curves, segment(point(u, -w/2), point(u, w/2)))
	}
	return curves
}

// helixTorus is two closed helices wound around a torus on opposite sides,
// joined by rungs through the tube centre.
func helixTorus(float64) []curve {
	const (
		bigR  = 50.0
		r     = 15.0
		wraps = 6.0
	)
	strand := func(phase float64) func(u float64) geom.Point3 {
		return func(u float64) geom.Point3 {
			t := u * 2 * math.Pi
			a := wraps*t + phase
			off := r * math.Cos(a)
			return geom.Pt((bigR+off)*math.Cos(t), (bigR+off)*math.Sin(t), r*math.Sin(a))
		}
	}
	s1, s2 := strand(0), strand(math.Pi)
	curves := []curve{{at: s1, closed: true}, {at: s2, closed: true}}
	for k := range rungCount {
		u := float64(k) / rungCount
		curves = append(curves, segment(s1(u), s2(u)))
	}
	return curves
}
