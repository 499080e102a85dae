package particle

import (
	"math"
	"strings"

	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/geom"
)

// ForceKind is the external influence applied to the particle field.
type ForceKind int

const (
	ForceNone ForceKind = iota
	ForceScatter
	ForceAttract
	ForceFreeze
)

func (k ForceKind) String() string {
	switch k {
	case ForceScatter:
		return "scatter"
	case ForceAttract:
		return "attract"
	case ForceFreeze:
		return "freeze"
	default:
		return "none"
	}
}

// Force is the per-frame external input. Without an anchor, scatter and
// attract act from the scene origin.
type Force struct {
	Kind      ForceKind
	Anchor    geom.Point3
	HasAnchor bool
}

// attractScale is attract's strength relative to scatter.
const attractScale = 0.5

// frameScale converts per-frame strengths tuned at 60 fps into per-second
// rates.
const frameScale = 60

// Falloff selects how force strength decreases with distance from the anchor.
type Falloff int

const (
	// FalloffLinear scales by 1 − d/R.
	FalloffLinear Falloff = iota
	// FalloffInverse scales by min(1, softening/d).
	FalloffInverse
)

func (f Falloff) String() string {
	if f == FalloffInverse {
		return "inverse"
	}
	return "linear"
}

// ParseFalloff parses a falloff name.
func ParseFalloff(s string) (Falloff, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return FalloffLinear, nil
	case "inverse":
		return FalloffInverse, nil
	}
	return 0, errors.New(errors.CodeConfiguration, "unknown force falloff %q", s)
}

// weight returns the falloff factor in [0, 1] at distance d. It is zero at and
// beyond radius and non-increasing in d.
func (f Falloff) weight(d, radius, softening float64) float64 {
	if d >= radius || radius <= 0 {
		return 0
	}
	switch f {
	case FalloffInverse:
		if d <= softening {
			return 1
		}
		return softening / d
	default:
		return 1 - d/radius
	}
}

// push returns the bias increment for a particle at pos over dt.
func (s *System) push(f Force, pos geom.Point3, dt float64) geom.Vec3 {
	var sign float64
	switch f.Kind {
	case ForceScatter:
		sign = 1
	case ForceAttract:
		sign = -attractScale
	default:
		return geom.Vec3{}
	}
	delta := pos.Sub(f.Anchor)
	d := delta.Len()
	// Direction is undefined this close to the anchor.
	if d <= 1 {
		return geom.Vec3{}
	}
	w := s.cfg.Falloff.weight(d, s.cfg.ForceRadius, s.cfg.Softening)
	if w == 0 {
		return geom.Vec3{}
	}
	return delta.Mul(sign * s.cfg.ForceStrength * w * dt * frameScale / d)
}

// decay shrinks bias exponentially toward zero.
func (s *System) decay(b geom.Vec3, dt float64) geom.Vec3 {
	if s.cfg.BiasDecay <= 0 || dt <= 0 {
		return b
	}
	return b.Mul(math.Exp(-s.cfg.BiasDecay * dt))
}
