package shape

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/pathgeom"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func TestGenerateExactCount(t *testing.T) {
	for _, id := range All() {
		for _, n := range []int{200, 600, 1200} {
			g, err := Generate(id, n, 0)
			if err != nil {
				t.Fatalf("%s n=%d: unexpected error: %v", id, n, err)
			}
			if g.Len() != n {
				t.Fatalf("%s: expected %d points, got %d", id, n, g.Len())
			}
			if got := g.Layout().Points(); got != n {
				t.Fatalf("%s: expected layout to cover %d points, got %d", id, n, got)
			}
			if err := g.Layout().Validate(n); err != nil {
				t.Fatalf("%s: invalid layout: %v", id, err)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, id := range All() {
		a, err := Generate(id, 400, 2.5)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Generate(id, 400, 2.5)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, a.Points(), b.Points())
	}
}

func TestStaticShapesIgnoreTime(t *testing.T) {
	for _, id := range All() {
		if id.Animated() {
			continue
		}
		a, _ := Generate(id, 300, 0)
		b, _ := Generate(id, 300, 42)
		diff(t, a.Points(), b.Points())
	}
}

func TestLorenzLayoutFixedAcrossTime(t *testing.T) {
	a, err := Generate(Lorenz, 600, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(Lorenz, 600, 37)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Layout().Equal(b.Layout()) {
		t.Fatalf("expected equal layouts, got %v and %v", a.Layout(), b.Layout())
	}
	moved := false
	for i := range a.Points() {
		if a.Points()[i] != b.Points()[i] {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("expected lorenz points to change over time")
	}
}

func TestLorenzContinuousBetweenFrames(t *testing.T) {
	const frame = 1.0 / 60
	for _, t0 := range []float64{0, 3.3, 12.7, 100.1, 149.9} {
		a, _ := Generate(Lorenz, 600, t0)
		b, _ := Generate(Lorenz, 600, t0+frame)
		worst := 0.0
		for i := range a.Points() {
			worst = math.Max(worst, a.Points()[i].Distance(b.Points()[i]))
		}
		if worst > 5 {
			t.Fatalf("t=%g: expected small displacement per frame, got %g", t0, worst)
		}
	}
}

func TestLorenzCentered(t *testing.T) {
	g, _ := Generate(Lorenz, 500, 9)
	var sx, sy, sz float64
	for _, p := range g.Points() {
		sx += p.X
		sy += p.Y
		sz += p.Z
	}
	n := float64(g.Len())
	if math.Abs(sx/n) > 1e-9 || math.Abs(sy/n) > 1e-9 || math.Abs(sz/n) > 1e-9 {
		t.Fatalf("expected centroid at origin, got (%g, %g, %g)", sx/n, sy/n, sz/n)
	}
}

func TestLorenzOffsetTriangle(t *testing.T) {
	span := float64(lorenzSteps - lorenzWindow - 1)
	turn := span / lorenzRate
	if got := lorenzOffset(0); got != 0 {
		t.Fatalf("expected offset 0 at t=0, got %g", got)
	}
	if got := lorenzOffset(turn); math.Abs(got-span) > 1e-9 {
		t.Fatalf("expected offset %g at turn, got %g", span, got)
	}
	if got := lorenzOffset(2 * turn); math.Abs(got) > 1e-6 {
		t.Fatalf("expected offset back at 0, got %g", got)
	}
	if a, b := lorenzOffset(turn-1), lorenzOffset(turn+1); math.Abs(a-b) > 1e-9 {
		t.Fatalf("expected symmetric sweep, got %g and %g", a, b)
	}
}

func TestSamplingUniform(t *testing.T) {
	for _, id := range All() {
		g, err := Generate(id, 600, 0)
		if err != nil {
			t.Fatal(err)
		}
		for s := range g.NumSubpaths() {
			if u := g.Uniformity(s); u > uniformityLimit {
				t.Fatalf("%s subpath %d: expected cv <= %g, got %g", id, s, uniformityLimit, u)
			}
		}
	}
}

func TestSmoothCurvesSampledEvenly(t *testing.T) {
	for _, id := range []ID{DNAHelix, TorusKnot, Mobius, HelixTorus} {
		g, _ := Generate(id, 1200, 0)
		for s := range g.NumSubpaths() {
			if u := g.Uniformity(s); u > 0.01 {
				t.Fatalf("%s subpath %d: expected near-uniform sampling, got cv %g", id, s, u)
			}
		}
	}
}

func TestClosedSubpathsWrap(t *testing.T) {
	g, _ := Generate(TorusKnot, 300, 0)
	pts, closed := g.Subpath(0)
	if !closed {
		t.Fatal("expected torus knot to be closed")
	}
	gap := pts[len(pts)-1].Distance(pts[0])
	step := pts[1].Distance(pts[0])
	if math.Abs(gap-step) > 0.05*step {
		t.Fatalf("expected wrap segment %g to match step %g", gap, step)
	}
}

func TestMinSamples(t *testing.T) {
	want := map[ID]int{DNAHelix: 44, TorusKnot: 2, Lorenz: 2, Cube: 12, Mobius: 42, HelixTorus: 44}
	for id, n := range want {
		if got := MinSamples(id); got != n {
			t.Fatalf("%s: expected %d, got %d", id, n, got)
		}
	}
	if MinSamples(Icosphere) < 4 {
		t.Fatalf("expected icosphere to split into several trails, got min %d", MinSamples(Icosphere))
	}
}

func TestGenerateTooFewSamples(t *testing.T) {
	_, err := Generate(DNAHelix, MinSamples(DNAHelix)-1, 0)
	if !errors.Is(err, errors.CodeGeometry) {
		t.Fatalf("expected geometry error, got %v", err)
	}
	if _, err := Generate(DNAHelix, MinSamples(DNAHelix), 0); err != nil {
		t.Fatalf("expected minimum count to work, got %v", err)
	}
}

func TestGenerateUnknownShape(t *testing.T) {
	if _, err := Generate(ID(Count), 100, 0); !errors.Is(err, errors.CodeGeometry) {
		t.Fatalf("expected geometry error, got %v", err)
	}
}

func TestAllocate(t *testing.T) {
	got, err := allocate([]float64{1, 1, 2}, 14)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []int{4, 4, 6}, got)

	// Remainders of 1/3 each: the spare point goes to the lowest index.
	got, _ = allocate([]float64{1, 1, 1}, 7)
	diff(t, []int{3, 2, 2}, got)

	got, _ = allocate([]float64{1000, 0.001}, 10)
	diff(t, []int{8, 2}, got)

	got, _ = allocate([]float64{0, 0}, 6)
	diff(t, []int{3, 3}, got)

	if _, err := allocate([]float64{1, 1, 1}, 5); err == nil {
		t.Fatal("expected error when n < 2 per subpath")
	}
}

func TestIDCycle(t *testing.T) {
	if DNAHelix.Next() != TorusKnot || HelixTorus.Next() != DNAHelix {
		t.Fatal("expected cycle order to wrap")
	}
	if Wrap(-1) != HelixTorus || Wrap(Count) != DNAHelix {
		t.Fatalf("unexpected wrap: %v %v", Wrap(-1), Wrap(Count))
	}
	if ID(9).String() != "unknown" {
		t.Fatalf("expected unknown, got %q", ID(9).String())
	}
	if Cube.String() != "Wireframe Cube" {
		t.Fatalf("unexpected name %q", Cube.String())
	}
}

func TestIcosphereTrailsCoverEveryEdge(t *testing.T) {
	// Square with a diagonal: two odd vertices, five edges.
	adj := [][]int{{1, 2, 3}, {0, 2}, {0, 1, 3}, {0, 2}}
	edges := 0
	for _, tr := range trails(adj) {
		edges += len(tr) - 1
	}
	if edges != 5 {
		t.Fatalf("expected 5 edges covered, got %d", edges)
	}
	first := trails(adj)[0]
	if first[0] != 0 {
		t.Fatalf("expected walk to start at odd vertex 0, got %v", first)
	}
}

func TestIcosphereEdgesKeepTheirCorners(t *testing.T) {
	icosphere(0)
	edges := 0
	for i, tr := range icoTrails {
		edges += len(tr) - 1
		if icoClosed[i] {
			edges++
		}
	}
	if edges != 120 {
		t.Fatalf("expected 120 edges, got %d", edges)
	}
	const defaultSamples = 1200
	if per := defaultSamples / edges; per < 8 {
		t.Fatalf("expected at least 8 samples per edge, got %d", per)
	}
}

func TestMorphCubeToIcosphere(t *testing.T) {
	cube, _ := Generate(Cube, 600, 0)
	ico, _ := Generate(Icosphere, 600, 0)

	start, err := pathgeom.Morph(cube, ico, 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, cube.Points(), start.Points())
	end, _ := pathgeom.Morph(cube, ico, 1)
	diff(t, ico.Points(), end.Points())

	mid, _ := pathgeom.Morph(cube, ico, 0.5)
	for i, p := range mid.Points() {
		want := cube.Points()[i].Lerp(ico.Points()[i], 0.5)
		if p.Distance(want) > 1e-9 {
			t.Fatalf("point %d: expected midpoint %v, got %v", i, want, p)
		}
	}
	if !mid.Layout().Equal(ico.Layout()) {
		t.Fatal("expected icosphere layout at the midpoint")
	}

	// Each point moves monotonically toward its target.
	for i := range cube.Points() {
		prev := math.Inf(1)
		for k := 0; k <= 10; k++ {
			g, _ := pathgeom.Morph(cube, ico, float64(k)/10)
			d := g.Points()[i].Distance(ico.Points()[i])
			if d > prev+1e-9 {
				t.Fatalf("point %d: distance to target grew at t=%g", i, float64(k)/10)
			}
			prev = d
		}
	}
}
