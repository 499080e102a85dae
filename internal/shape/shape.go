// Package shape generates the fixed repertoire of wireframe shapes as
// arc-length-uniform point sequences.
//
// Every shape emits exactly the requested number of points, and the subpath
// partition depends only on the shape and the sample count, never on time.
// Two shapes generated with the same sample count can therefore be morphed
// into each other index by index.
package shape

import (
	"math"
	"sync"

	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/geom"
	"github.com/olivier-w/holoforge/internal/pathgeom"
)

// ID identifies one of the shapes in cycle order.
type ID int

const (
	DNAHelix ID = iota
	TorusKnot
	Lorenz
	Cube
	Icosphere
	Mobius
	HelixTorus
)

// Count is the number of shapes in the repertoire.
const Count = 7

var names = [Count]string{
	"DNA Double Helix",
	"Torus Knot",
	"Lorenz Attractor",
	"Wireframe Cube",
	"Icosphere",
	"Möbius Strip",
	"Double Helix Torus",
}

func (id ID) String() string {
	if !id.Valid() {
		return "unknown"
	}
	return names[id]
}

// Valid reports whether id names a shape.
func (id ID) Valid() bool {
	return id >= 0 && id < Count
}

// Next returns the following shape in cycle order.
func (id ID) Next() ID {
	return Wrap(int(id) + 1)
}

// Animated reports whether the shape's points change with time.
func (id ID) Animated() bool {
	return id == Lorenz
}

// Wrap maps any integer onto a shape ID.
func Wrap(i int) ID {
	i %= Count
	if i < 0 {
		i += Count
	}
	return ID(i)
}

// All returns every shape in cycle order.
func All() []ID {
	ids := make([]ID, Count)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// curve is one subpath source, parametrized over u ∈ [0, 1]. For closed
// curves at(1) must equal at(0).
type curve struct {
	at     func(u float64) geom.Point3
	closed bool
	// density is the minimum number of dense samples used to measure and
	// invert the curve's arc length.
	density int
}

type builder struct {
	curves func(t float64) []curve
	// center subtracts the centroid of the sampled points.
	center bool
}

var builders = [Count]builder{
	DNAHelix:   {curves: dnaHelix},
	TorusKnot:  {curves: torusKnot},
	Lorenz:     {curves: lorenz, center: true},
	Cube:       {curves: cube},
	Icosphere:  {curves: icosphere},
	Mobius:     {curves: mobius},
	HelixTorus: {curves: helixTorus},
}

// MinSamples returns the smallest sample count the shape can be generated
// with: two points per subpath.
func MinSamples(id ID) int {
	return 2 * len(builders[id].curves(0))
}

type allocKey struct {
	id ID
	n  int
}

var allocations sync.Map // allocKey → []int

// Generate samples shape id with n points at time t (seconds).
func Generate(id ID, n int, t float64) (*pathgeom.Geometry, error) {
	if !id.Valid() {
		return nil, errors.New(errors.CodeGeometry, "unknown shape %d", int(id))
	}
	b := builders[id]
	curves := b.curves(t)
	counts, err := allocation(id, n)
	if err != nil {
		return nil, err
	}
	if len(counts) != len(curves) {
		return nil, errors.New(errors.CodeGeometry, "%s: %d subpaths at t=%g, layout has %d", id, len(curves), t, len(counts))
	}

	pts := make([]geom.Point3, 0, n)
	layout := make(pathgeom.Layout, len(curves))
	for j, c := range curves {
		layout[j] = pathgeom.Subpath{Start: len(pts), Count: counts[j], Closed: c.closed}
		pts = appendSamples(pts, c, counts[j])
	}
	if b.center {
		c := geom.Centroid(pts).Vec()
		for i := range pts {
			pts[i] = pts[i].Add(c.Mul(-1))
		}
	}
	for i, p := range pts {
		if !p.IsFinite() {
			return nil, errors.New(errors.CodeGeometry, "%s: non-finite point %d at t=%g", id, i, t)
		}
	}
	return pathgeom.New(pts, layout)
}

// allocation returns the per-subpath point counts of shape id for n points.
// Points are spread in proportion to each subpath's length at t=0 so that
// sampling density is uniform across the whole shape.
func allocation(id ID, n int) ([]int, error) {
	key := allocKey{id, n}
	if v, ok := allocations.Load(key); ok {
		return v.([]int), nil
	}
	curves := builders[id].curves(0)
	lengths := make([]float64, len(curves))
	for j, c := range curves {
		lengths[j] = measure(c)
	}
	counts, err := allocate(lengths, n)
	if err != nil {
		return nil, errors.Wrap(errors.CodeGeometry, err, "%s", id)
	}
	allocations.Store(key, counts)
	return counts, nil
}

// allocate splits n points over subpaths proportionally to lengths with a
// minimum of two each, rounding by largest remainder. Ties go to the lower
// index.
func allocate(lengths []float64, n int) ([]int, error) {
	m := len(lengths)
	if n < 2*m {
		return nil, errors.New(errors.CodeGeometry, "%d samples cannot cover %d subpaths", n, m)
	}
	total := 0.0
	for _, l := range lengths {
		total += l
	}
	spare := n - 2*m
	counts := make([]int, m)
	rem := make([]float64, m)
	used := 0
	for j, l := range lengths {
		share := float64(spare) / float64(m)
		if total > 0 {
			share = float64(spare) * l / total
		}
		whole := math.Floor(share)
		counts[j] = 2 + int(whole)
		rem[j] = share - whole
		used += int(whole)
	}
	for left := spare - used; left > 0; left-- {
		best := 0
		for j := 1; j < m; j++ {
			if rem[j] > rem[best] {
				best = j
			}
		}
		counts[best]++
		rem[best] = -1
	}
	return counts, nil
}

// dense samples c finely enough to measure its arc length.
func dense(c curve, count int) []geom.Point3 {
	m := max(c.density, 1024, 8*count)
	out := make([]geom.Point3, m+1)
	for i := range out {
		out[i] = c.at(float64(i) / float64(m))
	}
	return out
}

func measure(c curve) float64 {
	pts := dense(c, 0)
	l := 0.0
	for i := 1; i < len(pts); i++ {
		l += pts[i].Distance(pts[i-1])
	}
	return l
}

// appendSamples appends count points spaced evenly by arc length along c.
// Open curves include both endpoints; closed curves omit the duplicate end.
func appendSamples(dst []geom.Point3, c curve, count int) []geom.Point3 {
	pts := dense(c, count)
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + pts[i].Distance(pts[i-1])
	}
	total := cum[len(cum)-1]

	step := total / float64(count-1)
	if c.closed {
		step = total / float64(count)
	}
	j := 0
	for k := range count {
		target := float64(k) * step
		for j < len(cum)-2 && cum[j+1] < target {
			j++
		}
		seg := cum[j+1] - cum[j]
		if seg == 0 {
			dst = append(dst, pts[j])
			continue
		}
		f := math.Min(1, math.Max(0, (target-cum[j])/seg))
		dst = append(dst, pts[j].Lerp(pts[j+1], f))
	}
	return dst
}

// polyline returns an arc-length parametrized curve through vertices.
func polyline(closed bool, vertices ...geom.Point3) curve {
	vs := vertices
	if closed {
		vs = append(append([]geom.Point3(nil), vertices...), vertices[0])
	}
	cum := make([]float64, len(vs))
	for i := 1; i < len(vs); i++ {
		cum[i] = cum[i-1] + vs[i].Distance(vs[i-1])
	}
	total := cum[len(cum)-1]
	at := func(u float64) geom.Point3 {
		target := u * total
		for i := 1; i < len(vs); i++ {
			if target <= cum[i] || i == len(vs)-1 {
				seg := cum[i] - cum[i-1]
				if seg == 0 {
					return vs[i]
				}
				return vs[i-1].Lerp(vs[i], math.Min(1, math.Max(0, (target-cum[i-1])/seg)))
			}
		}
		return vs[0]
	}
	return curve{at: at, closed: closed}
}

func segment(a, b geom.Point3) curve {
	return curve{at: func(u float64) geom.Point3 { return a.Lerp(b, u) }}
}
