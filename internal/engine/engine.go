// Package engine runs one frame of the motion engine: it advances the shape
// cycle, snapshots the geometry, moves the particles against it and hands
// the result to whoever draws it.
package engine

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/olivier-w/holoforge/internal/config"
	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/gesture"
	"github.com/olivier-w/holoforge/internal/particle"
	"github.com/olivier-w/holoforge/internal/shape"
	"github.com/olivier-w/holoforge/internal/transition"
)

// Frame is everything the renderer needs for one tick.
type Frame struct {
	transition.Frame
	// Particles is the live pool; it is only valid until the next Step.
	Particles []particle.Particle
	Gesture   gesture.Sample
	Frozen    bool
	// Dt is the clamped time step the frame was advanced by.
	Dt float64
	// Clock is the total animated time.
	Clock float64
}

// Engine owns all per-run state. It is driven from a single goroutine.
type Engine struct {
	cfg       config.Config
	logger    *log.Logger
	manager   *transition.Manager
	particles *particle.System
	source    gesture.Source
	state     transition.State

	skip   bool
	frozen bool
}

// Option tunes engine construction.
type Option func(*options)

type options struct {
	onPrime func(id shape.ID, done, total int)
}

// WithPrimeProgress reports each shape as it is generated during startup.
func WithPrimeProgress(fn func(id shape.ID, done, total int)) Option {
	return func(o *options) { o.onPrime = fn }
}

// New builds an engine from a validated config. A nil source means no
// gesture input; a nil logger discards output.
func New(cfg config.Config, source gesture.Source, logger *log.Logger, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if source == nil {
		err := errors.New(errors.CodeInputUnavailable, "no gesture tracker")
		logger.Warn("running without gesture input", "err", err)
		source = gesture.Absent{}
	}
	lib := shape.NewLibrary(cfg.SampleCount, logger.WithPrefix("shape"))
	if o.onPrime != nil {
		lib.OnPrime(o.onPrime)
	}
	m, err := transition.NewManager(lib, cfg.Transition(), logger.WithPrefix("transition"))
	if err != nil {
		return nil, err
	}
	state := m.Initial(shape.DNAHelix)
	g := m.Geometry(state, state.Current)
	e := &Engine{
		cfg:       cfg,
		logger:    logger,
		manager:   m,
		particles: particle.NewSystem(cfg.Particle(), g, logger.WithPrefix("particle")),
		source:    source,
		state:     state,
	}
	logger.Info("engine ready", "samples", cfg.SampleCount, "particles", cfg.ParticleCount, "shape", state.Current)
	return e, nil
}

// Skip requests the next shape. It is applied on the next Step.
func (e *Engine) Skip() { e.skip = true }

// SkipTo starts a transition to id if the cycle is holding.
func (e *Engine) SkipTo(id shape.ID) {
	e.state = e.manager.SkipTo(e.state, id)
}

// ToggleFreeze flips the manual particle freeze.
func (e *Engine) ToggleFreeze() { e.frozen = !e.frozen }

// Frozen reports whether the manual freeze is on.
func (e *Engine) Frozen() bool { return e.frozen }

// Order returns the next-shape policy.
func (e *Engine) Order() transition.Order { return e.manager.Order() }

// SetOrder changes the next-shape policy.
func (e *Engine) SetOrder(o transition.Order) { e.manager.SetOrder(o) }

// State returns the shape cycle state.
func (e *Engine) State() transition.State { return e.state }

// Particles returns the particle system.
func (e *Engine) Particles() *particle.System { return e.particles }

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Step advances the animation by dt seconds. dt is clamped to
// [0, max_frame_delta] so a stalled frame does not skip a whole phase.
func (e *Engine) Step(dt float64) Frame {
	dt = e.clamp(dt)
	sample := e.source.Latest()
	skip := e.skip || sample.Kind == gesture.Skip
	e.skip = false

	prev := e.state
	var tf transition.Frame
	e.state, tf = e.manager.Tick(e.state, dt, skip)
	if e.state.Phase != prev.Phase || e.state.Current != prev.Current {
		e.logger.Info("phase", "phase", e.state.Phase, "shape", e.state.Current, "next", e.state.Next, "clock", e.state.Clock)
	}

	force := forceOf(sample, e.frozen)
	e.particles.Advance(dt, tf.Geometry, force)

	return Frame{
		Frame:     tf,
		Particles: e.particles.Particles(),
		Gesture:   sample,
		Frozen:    force.Kind == particle.ForceFreeze,
		Dt:        dt,
		Clock:     e.state.Clock,
	}
}

func (e *Engine) clamp(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	return math.Min(dt, e.cfg.MaxFrameDelta)
}

// forceOf maps a gesture sample to the particle force. A live scatter or
// attract wins over freeze so a frozen field can still be pushed around.
func forceOf(s gesture.Sample, frozen bool) particle.Force {
	f := particle.Force{Anchor: s.Anchor, HasAnchor: s.HasAnchor}
	switch {
	case s.Kind == gesture.Scatter:
		f.Kind = particle.ForceScatter
	case s.Kind == gesture.Attract:
		f.Kind = particle.ForceAttract
	case s.Kind == gesture.Freeze || frozen:
		f.Kind = particle.ForceFreeze
	}
	return f
}
