// Package gesture turns hand input into the per-frame force samples consumed
// by the motion engine.
//
// Producers publish into a Slot, possibly from another goroutine; the frame
// loop pulls the most recent sample once per tick through the Source
// interface.
package gesture

import (
	"sync/atomic"

	"github.com/olivier-w/holoforge/internal/geom"
)

// Kind is a recognized gesture.
type Kind int

const (
	None Kind = iota
	Scatter
	Attract
	Freeze
	Skip
)

func (k Kind) String() string {
	switch k {
	case Scatter:
		return "scatter"
	case Attract:
		return "attract"
	case Freeze:
		return "freeze"
	case Skip:
		return "skip"
	default:
		return "none"
	}
}

// Sample is the gesture state at one instant. Anchor is the hand position in
// scene coordinates when HasAnchor is set.
type Sample struct {
	Kind      Kind
	Anchor    geom.Point3
	HasAnchor bool
}

// Source yields the most recent gesture sample.
type Source interface {
	Latest() Sample
}

// Absent is the Source used when no tracker is available. It reports no
// gesture forever.
type Absent struct{}

func (Absent) Latest() Sample { return Sample{} }

// Slot holds the latest published sample. Publish and Latest may be called
// from different goroutines.
type Slot struct {
	p atomic.Pointer[Sample]
}

// Publish replaces the held sample.
func (s *Slot) Publish(v Sample) {
	s.p.Store(&v)
}

// Latest returns the held sample. A Skip is delivered once; later reads see
// the same anchor with no gesture until something new is published.
func (s *Slot) Latest() Sample {
	cur := s.p.Load()
	if cur == nil {
		return Sample{}
	}
	if cur.Kind == Skip {
		s.p.CompareAndSwap(cur, &Sample{Anchor: cur.Anchor, HasAnchor: cur.HasAnchor})
	}
	return *cur
}
