// Package pathgeom wraps a sampled point sequence with its subpath
// partition and cumulative arc lengths, and answers continuous
// position/tangent queries at arbitrary arc fractions.
//
// A Geometry is immutable once built. Queries are O(log n) in the number of
// samples of the queried subpath and allocate nothing, so they can be issued
// per particle per frame.
package pathgeom

import (
	"math"
	"sort"

	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/geom"
)

// Subpath is a contiguous index range of a geometry's points forming one
// continuous strand. A closed subpath has an implicit segment from its last
// point back to its first.
type Subpath struct {
	Start  int
	Count  int
	Closed bool
}

// segments returns the number of line segments in the subpath.
func (s Subpath) segments() int {
	if s.Closed {
		return s.Count
	}
	return s.Count - 1
}

// Layout is the subpath partition of a geometry.
type Layout []Subpath

// Equal reports whether two layouts describe the same partition.
func (l Layout) Equal(o Layout) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

// Points returns the total number of indices the layout covers.
func (l Layout) Points() int {
	n := 0
	for _, s := range l {
		n += s.Count
	}
	return n
}

// Validate checks that the layout partitions [0, n) into contiguous, ordered
// ranges of at least two points each.
func (l Layout) Validate(n int) error {
	if len(l) == 0 {
		return errors.New(errors.CodeGeometry, "layout has no subpaths")
	}
	next := 0
	for i, s := range l {
		if s.Start != next {
			return errors.New(errors.CodeGeometry, "subpath %d starts at %d, expected %d", i, s.Start, next)
		}
		if s.Count < 2 {
			return errors.New(errors.CodeGeometry, "subpath %d has %d points, need at least 2", i, s.Count)
		}
		next += s.Count
	}
	if next != n {
		return errors.New(errors.CodeGeometry, "layout covers %d indices, geometry has %d points", next, n)
	}
	return nil
}

// Geometry is a point sequence with precomputed arc lengths.
type Geometry struct {
	points []geom.Point3
	layout Layout
	// cum holds, per subpath, the prefix sums of its segment lengths starting
	// at 0; offsets[s] is where subpath s begins in cum.
	cum     []float64
	offsets []int
}

// New builds a Geometry. The points slice is retained, not copied; callers
// must not mutate it afterwards.
func New(points []geom.Point3, layout Layout) (*Geometry, error) {
	if err := layout.Validate(len(points)); err != nil {
		return nil, err
	}
	g := &Geometry{
		points:  points,
		layout:  layout,
		offsets: make([]int, len(layout)),
	}
	size := 0
	for i, s := range layout {
		g.offsets[i] = size
		size += s.segments() + 1
	}
	g.cum = make([]float64, size)
	for i, s := range layout {
		cum := g.cum[g.offsets[i] : g.offsets[i]+s.segments()+1]
		for k := range s.segments() {
			a := points[s.Start+k]
			b := points[s.Start+(k+1)%s.Count]
			cum[k+1] = cum[k] + a.Distance(b)
		}
	}
	return g, nil
}

// Len returns the number of points.
func (g *Geometry) Len() int { return len(g.points) }

// Points returns the underlying point sequence. It must not be modified.
func (g *Geometry) Points() []geom.Point3 { return g.points }

// Layout returns the subpath partition. It must not be modified.
func (g *Geometry) Layout() Layout { return g.layout }

// NumSubpaths returns the number of subpaths.
func (g *Geometry) NumSubpaths() int { return len(g.layout) }

// Subpath returns the points of subpath s and whether it is closed.
func (g *Geometry) Subpath(s int) ([]geom.Point3, bool) {
	sp := g.layout[s]
	return g.points[sp.Start : sp.Start+sp.Count], sp.Closed
}

// TotalLength returns the arc length of subpath s, including the closing
// segment of a closed subpath.
func (g *Geometry) TotalLength(s int) float64 {
	cum := g.cumOf(s)
	return cum[len(cum)-1]
}

// Length returns the summed arc length of all subpaths.
func (g *Geometry) Length() float64 {
	total := 0.0
	for s := range g.layout {
		total += g.TotalLength(s)
	}
	return total
}

func (g *Geometry) cumOf(s int) []float64 {
	return g.cum[g.offsets[s] : g.offsets[s]+g.layout[s].segments()+1]
}

// PointAt returns the position and unit tangent at arc fraction frac along
// subpath s. Closed subpaths wrap frac modulo 1; open subpaths clamp it to
// [0, 1]. A non-finite frac is treated as 0.
func (g *Geometry) PointAt(s int, frac float64) (geom.Point3, geom.Vec3) {
	sp := g.layout[s]
	cum := g.cumOf(s)
	total := cum[len(cum)-1]

	if math.IsNaN(frac) || math.IsInf(frac, 0) {
		frac = 0
	}
	if sp.Closed {
		frac -= math.Floor(frac)
		if frac >= 1 {
			frac = 0
		}
	} else {
		frac = math.Max(0, math.Min(1, frac))
	}

	if total == 0 {
		return g.points[sp.Start], geom.UnitY
	}

	target := frac * total
	nseg := sp.segments()
	seg := sort.SearchFloat64s(cum, target) - 1
	if seg < 0 {
		seg = 0
	}
	if seg >= nseg {
		seg = nseg - 1
	}

	a := g.points[sp.Start+seg]
	b := g.points[sp.Start+(seg+1)%sp.Count]
	segLen := cum[seg+1] - cum[seg]
	if segLen == 0 {
		return a, g.fallbackTangent(s, seg)
	}
	t := (target - cum[seg]) / segLen
	return a.Lerp(b, t), b.Sub(a).Mul(1 / segLen)
}

// fallbackTangent looks for the nearest non-degenerate segment after seg.
func (g *Geometry) fallbackTangent(s, seg int) geom.Vec3 {
	sp := g.layout[s]
	nseg := sp.segments()
	for k := 1; k < nseg; k++ {
		i := (seg + k) % nseg
		a := g.points[sp.Start+i]
		b := g.points[sp.Start+(i+1)%sp.Count]
		if d := b.Sub(a); d.Len2() > 0 {
			return d.Normalize()
		}
	}
	return geom.UnitY
}

// Uniformity returns the coefficient of variation (stddev/mean) of the
// segment lengths of subpath s. Zero means perfectly uniform sampling.
func (g *Geometry) Uniformity(s int) float64 {
	cum := g.cumOf(s)
	n := float64(len(cum) - 1)
	mean := cum[len(cum)-1] / n
	if mean == 0 {
		return 0
	}
	var ss float64
	for k := 1; k < len(cum); k++ {
		d := cum[k] - cum[k-1] - mean
		ss += d * d
	}
	return math.Sqrt(ss/n) / mean
}
