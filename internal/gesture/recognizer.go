package gesture

import (
	"time"

	"github.com/olivier-w/holoforge/internal/geom"
)

// Recognizer debounces a stream of poses into gesture samples. Scatter and
// attract must be held for the hold time before they take effect; skip is
// rate-limited by the cooldown; a fist toggles freeze each time it is made.
type Recognizer struct {
	hold     time.Duration
	cooldown time.Duration

	pose     Pose
	since    time.Time
	lastSkip time.Time
	frozen   bool
}

// NewRecognizer creates a Recognizer.
func NewRecognizer(hold, cooldown time.Duration) *Recognizer {
	return &Recognizer{hold: hold, cooldown: cooldown}
}

// Frozen reports whether the fist toggle is on.
func (r *Recognizer) Frozen() bool { return r.frozen }

// Pose returns the pose seen on the last observation.
func (r *Recognizer) Pose() Pose { return r.pose }

// Observe feeds the pose seen at now and returns the resulting sample.
// Without a hand, pass ok=false.
func (r *Recognizer) Observe(p Pose, anchor geom.Point3, ok bool, now time.Time) Sample {
	if !ok {
		r.pose = Neutral
		return r.idle(Sample{})
	}
	prev := r.pose
	if p != prev {
		r.since = now
	}
	r.pose = p
	s := Sample{Anchor: anchor, HasAnchor: true}

	switch p {
	case Fist:
		if prev != Fist {
			r.frozen = !r.frozen
		}
	case Peace:
		if prev != Peace && (r.lastSkip.IsZero() || now.Sub(r.lastSkip) > r.cooldown) {
			r.lastSkip = now
			s.Kind = Skip
			return s
		}
	case OpenPalm, Pinch:
		if now.Sub(r.since) >= r.hold {
			s.Kind = Scatter
			if p == Pinch {
				s.Kind = Attract
			}
			return s
		}
	}
	return r.idle(s)
}

func (r *Recognizer) idle(s Sample) Sample {
	if r.frozen {
		s.Kind = Freeze
	}
	return s
}
