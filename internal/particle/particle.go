// Package particle implements the particle aura: a fixed pool of particles
// that flow along the subpaths of a geometry, orbit around them, leave short
// trails and respond to an external force field.
package particle

import (
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/geom"
	"github.com/olivier-w/holoforge/internal/pathgeom"
)

// Config holds the particle tunables.
type Config struct {
	Count int
	// Speed is the base travel speed along a path in scene units per second.
	Speed       float64
	OrbitRadius float64
	// OrbitAngularSpeed is the base orbit rate in radians per second.
	OrbitAngularSpeed float64
	TrailLength       int

	ForceStrength float64
	ForceRadius   float64
	Falloff       Falloff
	Softening     float64
	// BiasDecay is the exponential decay rate of force displacement per second.
	BiasDecay float64
	MaxBias   float64

	Seed uint64
}

// Particle is one member of the aura.
type Particle struct {
	Subpath int
	// Arc is the fraction along the subpath, always in [0, 1).
	Arc float64
	// Dir is +1 or −1; open subpaths reverse it at their ends.
	Dir         float64
	Speed       float64
	OrbitPhase  float64
	OrbitRadius float64
	OrbitSpeed  float64
	Bias        geom.Vec3
	Frozen      bool
	Position    geom.Point3
	Trail       Trail
}

func (p *Particle) finite() bool {
	return finite(p.Arc) && finite(p.OrbitPhase) && p.Bias.IsFinite() && p.Position.IsFinite()
}

// System owns the particle pool and the layout it was distributed over.
type System struct {
	cfg       Config
	logger    *log.Logger
	particles []Particle
	layout    pathgeom.Layout
}

// NewSystem creates cfg.Count particles spread over g. A nil logger discards
// output.
func NewSystem(cfg Config, g *pathgeom.Geometry, logger *log.Logger) *System {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &System{
		cfg:       cfg,
		logger:    logger,
		particles: make([]Particle, max(cfg.Count, 0)),
	}
	for i := range s.particles {
		s.particles[i].Trail = NewTrail(cfg.TrailLength)
	}
	s.Reset(g)
	return s
}

// Count returns the number of particles.
func (s *System) Count() int { return len(s.particles) }

// Particles returns the pool. It must not be modified.
func (s *System) Particles() []Particle { return s.particles }

// Reset redistributes every particle over g.
func (s *System) Reset(g *pathgeom.Geometry) {
	s.layout = g.Layout()
	for i := range s.particles {
		s.place(i, g)
	}
}

// place puts particle i at its deterministic initial position on g. Subpaths
// receive particles in proportion to their length.
func (s *System) place(i int, g *pathgeom.Geometry) {
	p := &s.particles[i]
	rng := rand.New(rand.NewPCG(s.cfg.Seed, uint64(i)))

	p.Subpath, p.Arc = spread(g, i, len(s.particles))
	p.Dir = 1
	if rng.IntN(2) == 0 {
		p.Dir = -1
	}
	p.Speed = 0.8 + 0.4*rng.Float64()
	p.OrbitPhase = 2 * math.Pi * rng.Float64()
	p.OrbitRadius = s.cfg.OrbitRadius * (0.5 + rng.Float64())
	p.OrbitSpeed = s.cfg.OrbitAngularSpeed * (0.75 + 0.5*rng.Float64())
	p.Bias = geom.Vec3{}
	p.Frozen = false
	p.Position = s.orbit(p, g)
	p.Trail.Clear()
}

// spread maps particle i of n to a subpath and arc fraction so that the pool
// is laid out evenly by cumulative length over the whole geometry.
func spread(g *pathgeom.Geometry, i, n int) (int, float64) {
	total := g.Length()
	if total == 0 {
		return i % g.NumSubpaths(), 0
	}
	target := (float64(i) + 0.5) / float64(n) * total
	for sp := range g.NumSubpaths() {
		l := g.TotalLength(sp)
		if target < l || sp == g.NumSubpaths()-1 {
			if l == 0 {
				return sp, 0
			}
			return sp, normalizeArc(target/l, false)
		}
		target -= l
	}
	return 0, 0
}

// Advance moves every particle forward by dt seconds along g under force f.
// A layout change in g redistributes the pool first.
func (s *System) Advance(dt float64, g *pathgeom.Geometry, f Force) {
	if !s.layout.Equal(g.Layout()) {
		s.logger.Debug("layout changed, redistributing particles", "subpaths", g.NumSubpaths())
		s.Reset(g)
	}
	if !f.HasAnchor {
		f.Anchor = geom.Point3{}
	}
	frozen := f.Kind == ForceFreeze

	for i := range s.particles {
		p := &s.particles[i]
		p.Frozen = frozen
		if !frozen {
			s.travel(p, g, dt)
		}
		p.OrbitPhase = math.Mod(p.OrbitPhase+p.OrbitSpeed*dt, 2*math.Pi)

		pos := s.orbit(p, g)
		if f.Kind == ForceScatter || f.Kind == ForceAttract {
			p.Bias = p.Bias.Add(s.push(f, pos.Add(p.Bias), dt))
		} else {
			p.Bias = s.decay(p.Bias, dt)
		}
		p.Bias = p.Bias.ClampLen(s.cfg.MaxBias)
		p.Position = pos.Add(p.Bias)

		if !p.finite() {
			err := errors.New(errors.CodeNumericInstability, "particle %d: non-finite state", i)
			s.logger.Warn("resetting particle", "err", err, "dt", dt)
			s.place(i, g)
			p.Frozen = frozen
			continue
		}
		if !frozen {
			p.Trail.Push(p.Position)
		}
	}
}

// travel advances the arc fraction of p along its subpath.
func (s *System) travel(p *Particle, g *pathgeom.Geometry, dt float64) {
	length := g.TotalLength(p.Subpath)
	if length == 0 {
		return
	}
	_, closed := g.Subpath(p.Subpath)
	arc := p.Arc + p.Dir*s.cfg.Speed*p.Speed*dt/length
	if closed {
		p.Arc = normalizeArc(arc, true)
		return
	}
	p.Arc, p.Dir = reflect(arc, p.Dir)
}

// orbit returns the point on p's orbit around its path position.
func (s *System) orbit(p *Particle, g *pathgeom.Geometry) geom.Point3 {
	pos, tangent := g.PointAt(p.Subpath, p.Arc)
	u, w := geom.Basis(tangent)
	sin, cos := math.Sincos(p.OrbitPhase)
	return pos.Add(u.Mul(p.OrbitRadius * cos)).Add(w.Mul(p.OrbitRadius * sin))
}

// normalizeArc folds a into [0, 1): modulo 1 on closed subpaths, clamped on
// open ones. Non-finite input is left for the caller's reset.
func normalizeArc(a float64, closed bool) float64 {
	if !finite(a) {
		return a
	}
	if closed {
		a -= math.Floor(a)
	}
	if a >= 1 {
		a = math.Nextafter(1, 0)
	}
	if a < 0 {
		a = 0
	}
	return a
}

// reflect bounces a between 0 and 1 as if it moved along an open subpath
// reversing at each end, and returns the new fraction and direction.
func reflect(a, dir float64) (float64, float64) {
	if !finite(a) {
		return a, dir
	}
	m := math.Mod(a, 2)
	if m < 0 {
		m += 2
	}
	if m > 1 {
		return normalizeArc(2-m, false), -dir
	}
	return normalizeArc(m, false), dir
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
