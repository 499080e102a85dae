package shape

import (
	"math"
	"slices"
	"sync"

	"github.com/olivier-w/holoforge/internal/geom"
)

const (
	icoRadius = 70.0
	// One subdivision gives 120 edges, about 10 samples per edge at the
	// default sample count. Two would give 480 edges at 2.5 samples each,
	// and resampling would cut every corner.
	icoSubdivisions = 1
)

var (
	icoOnce   sync.Once
	icoTrails [][]geom.Point3
	icoClosed []bool
)

// icosphere is the edge graph of a subdivided icosahedron, decomposed into a
// small number of trails so each subpath is a long strand rather than a
// single edge.
func icosphere(float64) []curve {
	icoOnce.Do(buildIcosphere)
	curves := make([]curve, len(icoTrails))
	for i, tr := range icoTrails {
		curves[i] = polyline(icoClosed[i], tr...)
	}
	return curves
}

func buildIcosphere() {
	phi := (1 + math.Sqrt(5)) / 2
	verts := []geom.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range verts {
		verts[i] = verts[i].Normalize().Mul(icoRadius)
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for range icoSubdivisions {
		mid := map[[2]int]int{}
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := mid[key]; ok {
				return i
			}
			m := verts[a].Add(verts[b]).Normalize().Mul(icoRadius)
			verts = append(verts, m)
			mid[key] = len(verts) - 1
			return len(verts) - 1
		}
		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			next = append(next, [3]int{f[0], a, c}, [3]int{f[1], b, a}, [3]int{f[2], c, b}, [3]int{a, b, c})
		}
		faces = next
	}

	adj := make([][]int, len(verts))
	seen := map[[2]int]bool{}
	for _, f := range faces {
		for k := range 3 {
			a, b := f[k], f[(k+1)%3]
			key := [2]int{min(a, b), max(a, b)}
			if seen[key] {
				continue
			}
			seen[key] = true
			adj[a] = append(adj[a], b)
			adj[b] = append(adj[b], a)
		}
	}
	for _, n := range adj {
		slices.Sort(n)
	}

	for _, trail := range trails(adj) {
		closed := len(trail) > 3 && trail[0] == trail[len(trail)-1]
		if closed {
			trail = trail[:len(trail)-1]
		}
		pts := make([]geom.Point3, len(trail))
		for i, v := range trail {
			pts[i] = geom.Point3(verts[v])
		}
		icoTrails = append(icoTrails, pts)
		icoClosed = append(icoClosed, closed)
	}
}

// trails greedily decomposes an undirected graph into edge-disjoint walks.
// Walks start at odd-degree vertices first so that most of them end at
// another odd vertex, then sweep the remaining Eulerian components. Neighbor
// order is deterministic, so the decomposition is too.
func trails(adj [][]int) [][]int {
	used := map[[2]int]bool{}
	remaining := make([]int, len(adj))
	for v, n := range adj {
		remaining[v] = len(n)
	}
	take := func(a, b int) {
		used[[2]int{min(a, b), max(a, b)}] = true
		remaining[a]--
		remaining[b]--
	}
	walk := func(start int) []int {
		path := []int{start}
		v := start
		for {
			next := -1
			for _, n := range adj[v] {
				if !used[[2]int{min(v, n), max(v, n)}] {
					next = n
					break
				}
			}
			if next < 0 {
				return path
			}
			take(v, next)
			path = append(path, next)
			v = next
		}
	}

	var out [][]int
	for {
		start := -1
		for v, r := range remaining {
			if r%2 == 1 {
				start = v
				break
			}
		}
		if start < 0 {
			for v, r := range remaining {
				if r > 0 {
					start = v
					break
				}
			}
		}
		if start < 0 {
			return out
		}
		out = append(out, walk(start))
	}
}
