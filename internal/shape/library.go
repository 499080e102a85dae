package shape

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/olivier-w/holoforge/internal/pathgeom"
)

// uniformityLimit is the coefficient of variation of segment lengths above
// which a subpath is reported as unevenly sampled.
const uniformityLimit = 0.25

// Library hands out geometries for a fixed sample count. Static shapes are
// generated once; animated shapes are regenerated on every call. When a
// generator fails, the last good geometry for that shape is returned instead.
//
// A Library is owned by the frame loop and is not safe for concurrent use.
type Library struct {
	samples  int
	logger   *log.Logger
	generate func(ID, int, float64) (*pathgeom.Geometry, error)
	static   map[ID]*pathgeom.Geometry
	last     map[ID]*pathgeom.Geometry
	warned   map[ID]bool
	onPrime  func(id ID, done, total int)
}

// NewLibrary creates a Library producing samples points per shape. A nil
// logger discards output.
func NewLibrary(samples int, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Library{
		samples:  samples,
		logger:   logger,
		generate: Generate,
		static:   make(map[ID]*pathgeom.Geometry),
		last:     make(map[ID]*pathgeom.Geometry),
		warned:   make(map[ID]bool),
	}
}

// Samples returns the point count of every geometry the library produces.
func (l *Library) Samples() int { return l.samples }

// Prime generates every shape once at t=0. A failure here means the sample
// count cannot serve the repertoire.
func (l *Library) Prime() error {
	all := All()
	for i, id := range all {
		if _, err := l.Geometry(id, 0); err != nil {
			return err
		}
		if l.onPrime != nil {
			l.onPrime(id, i+1, len(all))
		}
	}
	return nil
}

// OnPrime registers fn to be called after each shape Prime generates.
func (l *Library) OnPrime(fn func(id ID, done, total int)) { l.onPrime = fn }

// Geometry returns shape id at time t. An error is only returned when the
// generator fails and no earlier geometry exists to fall back to.
func (l *Library) Geometry(id ID, t float64) (*pathgeom.Geometry, error) {
	if g, ok := l.static[id]; ok {
		return g, nil
	}
	g, err := l.generate(id, l.samples, t)
	if err == nil && g.Len() != l.samples {
		err = errGeometryCount(id, g.Len(), l.samples)
	}
	if prev, ok := l.last[id]; ok && err == nil && !prev.Layout().Equal(g.Layout()) {
		err = errLayoutChanged(id)
	}
	if err != nil {
		if prev, ok := l.last[id]; ok {
			l.logger.Error("shape generation failed, reusing previous geometry", "shape", id, "t", t, "err", err)
			return prev, nil
		}
		return nil, err
	}

	l.checkUniform(id, g)
	l.last[id] = g
	if !id.Animated() {
		l.static[id] = g
	}
	return g, nil
}

// checkUniform logs, once per shape, subpaths whose sampling is uneven.
func (l *Library) checkUniform(id ID, g *pathgeom.Geometry) {
	if l.warned[id] {
		return
	}
	for s := range g.NumSubpaths() {
		if u := g.Uniformity(s); u > uniformityLimit {
			l.logger.Warn("uneven subpath sampling", "shape", id, "subpath", s, "cv", u)
			l.warned[id] = true
			return
		}
	}
}
