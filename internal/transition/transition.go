// Package transition drives the shape cycle: each shape is held, dissolved
// outward and reformed as the next shape. The machine's state is an explicit
// value passed into and returned from Tick.
package transition

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/pathgeom"
	"github.com/olivier-w/holoforge/internal/shape"
)

// Phase is a state of the shape cycle.
type Phase int

const (
	Holding Phase = iota
	Dissolving
	Reforming
)

func (p Phase) String() string {
	switch p {
	case Dissolving:
		return "dissolving"
	case Reforming:
		return "reforming"
	default:
		return "holding"
	}
}

// Style selects how the rendered geometry travels between shapes.
type Style int

const (
	// StyleScatter flies the points outward and back in as the next shape,
	// fading out and in.
	StyleScatter Style = iota
	// StyleMorph interpolates index-wise from one shape to the next at full
	// brightness.
	StyleMorph
)

func (s Style) String() string {
	if s == StyleMorph {
		return "morph"
	}
	return "scatter"
}

// ParseStyle parses a transition style name.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "", "scatter":
		return StyleScatter, nil
	case "morph":
		return StyleMorph, nil
	}
	return 0, errors.New(errors.CodeConfiguration, "unknown transition style %q", s)
}

// epsilon absorbs rounding when elapsed time meets a phase boundary.
const epsilon = 1e-9

// maxSteps bounds phase changes within one tick.
const maxSteps = 16

// Config holds the transition tunables.
type Config struct {
	// HoldTime is how long each shape is shown, in seconds.
	HoldTime float64
	// DissolveTime is the full transition time; dissolve and reform each take
	// half of it.
	DissolveTime    float64
	ScatterDistance float64
	Order           Order
	Style           Style
	Seed            uint64
}

// State is the complete state of the shape cycle.
type State struct {
	Phase   Phase
	Current shape.ID
	// Next is the shape being dissolved toward. While reforming it equals
	// Current.
	Next shape.ID
	// Previous is the shape that was dissolved, kept for morphing.
	Previous shape.ID
	// Elapsed is the time spent in Phase.
	Elapsed float64
	// Clock is the total animated time; it drives time-varying shapes.
	Clock       float64
	SkipPending bool
	// Transitions counts dissolves started so far.
	Transitions int
}

// Frame is what the cycle renders for one tick.
type Frame struct {
	Geometry *pathgeom.Geometry
	// Alpha is the global brightness in [0, 1].
	Alpha float64
	Phase Phase
	// Progress is the eased fraction of the current dissolve or reform.
	Progress float64
	Current  shape.ID
	Next     shape.ID
}

// Manager steps State values. It owns the shape library and is not safe for
// concurrent use.
type Manager struct {
	lib     *shape.Library
	cfg     Config
	logger  *log.Logger
	scatter scatterField
}

// NewManager primes lib and returns a Manager over it. A nil logger discards
// output.
func NewManager(lib *shape.Library, cfg Config, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.HoldTime <= 0 || cfg.DissolveTime <= 0 {
		return nil, errors.New(errors.CodeConfiguration, "hold time %g and dissolve time %g must be positive", cfg.HoldTime, cfg.DissolveTime)
	}
	if err := lib.Prime(); err != nil {
		return nil, err
	}
	return &Manager{
		lib:     lib,
		cfg:     cfg,
		logger:  logger,
		scatter: newScatterField(lib.Samples(), cfg.ScatterDistance),
	}, nil
}

// Initial returns the state at startup, holding start.
func (m *Manager) Initial(start shape.ID) State {
	if !start.Valid() {
		start = shape.DNAHelix
	}
	return State{Phase: Holding, Current: start, Next: start, Previous: start}
}

// Order returns the active next-shape policy.
func (m *Manager) Order() Order { return m.cfg.Order }

// SetOrder changes the next-shape policy from the next dissolve on.
func (m *Manager) SetOrder(o Order) { m.cfg.Order = o }

// Config returns the manager's tunables.
func (m *Manager) Config() Config { return m.cfg }

func (m *Manager) half() float64 { return m.cfg.DissolveTime / 2 }

// Tick advances s by dt seconds and renders the result. A skip while holding
// starts the next dissolve at once; a skip during a transition is deferred to
// the next hold, and any number of them collapse into one.
func (m *Manager) Tick(s State, dt float64, skip bool) (State, Frame) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		dt = 0
	}
	s.Clock += dt
	if skip {
		s.SkipPending = true
	}

	rem := dt
	for range maxSteps {
		if s.Phase == Holding && s.SkipPending {
			s = m.begin(s, m.cfg.Order.next(s.Current, s.Transitions, m.cfg.Seed))
			continue
		}
		var left float64
		switch s.Phase {
		case Holding:
			left = m.cfg.HoldTime - s.Elapsed
		default:
			left = m.half() - s.Elapsed
		}
		if rem < left-epsilon {
			s.Elapsed += rem
			rem = 0
			break
		}
		rem = math.Max(0, rem-math.Max(left, 0))
		s = m.advance(s)
	}
	return s, m.render(s)
}

// SkipTo starts a dissolve straight to id. It only acts while holding and
// when id differs from the current shape.
func (m *Manager) SkipTo(s State, id shape.ID) State {
	if s.Phase != Holding || !id.Valid() || id == s.Current {
		return s
	}
	return m.begin(s, id)
}

// begin starts dissolving the current shape toward next.
func (m *Manager) begin(s State, next shape.ID) State {
	m.logger.Debug("dissolve", "from", s.Current, "to", next, "clock", s.Clock)
	s.Phase = Dissolving
	s.Next = next
	s.Elapsed = 0
	s.SkipPending = false
	s.Transitions++
	return s
}

// advance moves s across the boundary at the end of its phase.
func (m *Manager) advance(s State) State {
	switch s.Phase {
	case Holding:
		return m.begin(s, m.cfg.Order.next(s.Current, s.Transitions, m.cfg.Seed))
	case Dissolving:
		m.logger.Debug("reform", "shape", s.Next, "clock", s.Clock)
		s.Phase = Reforming
		s.Previous = s.Current
		s.Current = s.Next
	case Reforming:
		m.logger.Debug("hold", "shape", s.Current, "clock", s.Clock)
		s.Phase = Holding
	}
	s.Elapsed = 0
	return s
}

// Geometry returns the exact geometry of shape id at the state's clock.
func (m *Manager) Geometry(s State, id shape.ID) *pathgeom.Geometry {
	g, err := m.lib.Geometry(id, s.Clock)
	if err != nil {
		// Prime guarantees a fallback for every shape.
		m.logger.Error("no geometry", "shape", id, "err", err)
	}
	return g
}

// render builds the frame for s.
func (m *Manager) render(s State) Frame {
	f := Frame{Phase: s.Phase, Current: s.Current, Next: s.Next, Alpha: 1}
	cur := m.Geometry(s, s.Current)
	if s.Phase == Holding {
		f.Geometry = cur
		return f
	}
	e := Ease(s.Elapsed / m.half())
	f.Progress = e

	if m.cfg.Style == StyleMorph {
		a, b, t := cur, m.Geometry(s, s.Next), 0.5*e
		if s.Phase == Reforming {
			a, b, t = m.Geometry(s, s.Previous), cur, 0.5+0.5*e
		}
		g, err := pathgeom.Morph(a, b, t)
		if err != nil {
			m.logger.Error("morph failed", "from", s.Previous, "to", s.Next, "err", err)
			g = cur
		}
		f.Geometry = g
		return f
	}

	amount := e
	f.Alpha = 1 - e
	if s.Phase == Reforming {
		amount = 1 - e
		f.Alpha = e
	}
	g, err := cur.WithPoints(m.scatter.blend(nil, cur.Points(), amount))
	if err != nil {
		m.logger.Error("scatter failed", "shape", s.Current, "err", err)
		g = cur
	}
	f.Geometry = g
	return f
}
