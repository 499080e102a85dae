package transition

import (
	"math"

	"github.com/olivier-w/holoforge/internal/geom"
)

// Ease is the smoothstep curve 3t² − 2t³ with t clamped to [0, 1].
func Ease(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}

// goldenAngle spaces successive points of a Fibonacci sphere.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// fibonacciDir returns the direction of point i of n on a Fibonacci sphere.
func fibonacciDir(i, n int) geom.Vec3 {
	y := 1 - 2*(float64(i)+0.5)/float64(n)
	r := math.Sqrt(math.Max(0, 1-y*y))
	s, c := math.Sincos(float64(i) * goldenAngle)
	return geom.V(c*r, y, s*r)
}

// hash01 maps an index to a well-mixed value in [0, 1) (splitmix64 finalizer).
func hash01(i int) float64 {
	z := uint64(i) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}

// scatterField precomputes per-index scatter distances and fallback
// directions for a fixed point count.
type scatterField struct {
	dist []float64
	dirs []geom.Vec3
}

func newScatterField(n int, distance float64) scatterField {
	f := scatterField{dist: make([]float64, n), dirs: make([]geom.Vec3, n)}
	for i := range n {
		f.dist[i] = distance * (0.6 + 0.8*hash01(i))
		f.dirs[i] = fibonacciDir(i, n)
	}
	return f
}

// target returns where point i at p flies to when fully dissolved: outward
// along its radial direction from the origin.
func (f scatterField) target(i int, p geom.Point3) geom.Point3 {
	dir := p.Vec().Normalize()
	if dir == (geom.Vec3{}) {
		dir = f.dirs[i]
	}
	return p.Add(dir.Mul(f.dist[i]))
}

// blend moves each point of pts toward its scatter target by e into dst.
func (f scatterField) blend(dst, pts []geom.Point3, e float64) []geom.Point3 {
	if cap(dst) < len(pts) {
		dst = make([]geom.Point3, len(pts))
	}
	dst = dst[:len(pts)]
	for i, p := range pts {
		dst[i] = p.Lerp(f.target(i, p), e)
	}
	return dst
}
