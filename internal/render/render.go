// Package render draws a frame of the animation into a terminal braille
// canvas: the wireframe with depth colouring and glow, the particle aura with
// fading trails, and the hand cursor.
package render

import (
	"math"

	"github.com/olivier-w/holoforge/internal/geom"
	"github.com/olivier-w/holoforge/internal/particle"
	"github.com/olivier-w/holoforge/internal/pathgeom"
)

// Scene is one frame's worth of drawable state.
type Scene struct {
	Geometry  *pathgeom.Geometry
	Particles []particle.Particle
	// Alpha is the global brightness in [0, 1].
	Alpha float64
	// Angle is the view rotation about Y in radians.
	Angle     float64
	Anchor    geom.Point3
	HasAnchor bool
}

// View renders scenes as terminal text.
type View interface {
	Name() string
	Update(s Scene, width, height int)
	View() string
}

// Options configures the renderers.
type Options struct {
	Camera     Camera
	GlowPasses int
}

// Modes returns the available views.
func Modes(o Options) []View {
	return []View{
		NewHologram(o, partWire|partParticles|partHand, "hologram"),
		NewHologram(o, partWire|partHand, "wireframe"),
		NewHologram(o, partParticles|partHand, "particles"),
	}
}

type part uint8

const (
	partWire part = 1 << iota
	partParticles
	partHand
)

const (
	// glowFalloff is the brightness kept by each successive glow pass.
	glowFalloff = 0.5
	// minLevel is the dimmest dot still drawn.
	minLevel = 0.02
	// trailLevel is the brightness of the newest trail point.
	trailLevel = 0.6
	// cornerCos is the cosine of the smallest turn treated as a corner.
	cornerCos = 0.85
	// keyStride spaces the key vertices of subpaths without corners.
	keyStride = 50
)

// Hologram draws the wireframe and particle aura.
type Hologram struct {
	name    string
	parts   part
	opts    Options
	canvas  *Canvas
	profile colorProfile
	output  string
	proj    []projected
	keys    []int
}

// NewHologram creates a view drawing the given parts.
func NewHologram(o Options, parts part, name string) *Hologram {
	return &Hologram{
		name:    name,
		parts:   parts,
		opts:    o,
		canvas:  NewCanvas(1, 1),
		profile: currentColorProfile(),
	}
}

func (h *Hologram) Name() string { return h.name }

func (h *Hologram) View() string { return h.output }

func (h *Hologram) Update(s Scene, width, height int) {
	h.canvas.Resize(width, height)
	alpha := clamp01(s.Alpha)
	if h.parts&partWire != 0 && s.Geometry != nil && alpha >= minLevel {
		h.drawWire(s.Geometry, s.Angle, alpha)
	}
	if h.parts&partParticles != 0 && alpha >= minLevel {
		h.drawParticles(s.Particles, s.Angle, alpha)
	}
	if h.parts&partHand != 0 && s.HasAnchor {
		h.drawHand(s.Anchor, s.Angle)
	}
	h.output = h.canvas.String(h.profile)
}

type projected struct {
	x, y float64
	z    float64
	ok   bool
}

func (h *Hologram) project(p geom.Point3, angle float64) projected {
	w, ht := h.canvas.DotSize()
	x, y, z, ok := h.opts.Camera.Project(p, angle, w, ht)
	return projected{x: x, y: y, z: z, ok: ok}
}

func (h *Hologram) drawWire(g *pathgeom.Geometry, angle, alpha float64) {
	pts := g.Points()
	if cap(h.proj) < len(pts) {
		h.proj = make([]projected, len(pts))
	}
	proj := h.proj[:len(pts)]
	for i, p := range pts {
		proj[i] = h.project(p, angle)
	}
	// Glow first so the core line wins each cell's colour.
	for pass := h.opts.GlowPasses; pass >= 0; pass-- {
		level := alpha * math.Pow(glowFalloff, float64(pass))
		if level < minLevel {
			continue
		}
		for _, sp := range g.Layout() {
			segs := sp.Count - 1
			if sp.Closed {
				segs = sp.Count
			}
			for k := range segs {
				a := proj[sp.Start+k]
				b := proj[sp.Start+(k+1)%sp.Count]
				if !a.ok || !b.ok {
					continue
				}
				h.segment(a, b, pass, level)
			}
		}
	}
	// Key vertices are drawn double size on top of the core line.
	h.keys = keyVertices(g, h.keys[:0])
	for _, i := range h.keys {
		q := proj[i]
		if !q.ok {
			continue
		}
		x, y := int(math.Round(q.x)), int(math.Round(q.y))
		c := depthColor(q.z)
		h.canvas.Dot(x, y, c, alpha)
		h.canvas.Dot(x+1, y, c, alpha)
		h.canvas.Dot(x, y+1, c, alpha)
		h.canvas.Dot(x+1, y+1, c, alpha)
	}
}

// keyVertices appends to dst the indices of the points worth emphasising:
// the ends of open subpaths and sharp corners. A subpath without corners
// gets a point every keyStride samples instead.
func keyVertices(g *pathgeom.Geometry, dst []int) []int {
	all := g.Points()
	for _, sp := range g.Layout() {
		pts := all[sp.Start : sp.Start+sp.Count]
		if !sp.Closed {
			dst = append(dst, sp.Start, sp.Start+sp.Count-1)
		}
		corners := 0
		for k := range pts {
			if !sp.Closed && (k == 0 || k == len(pts)-1) {
				continue
			}
			in := pts[k].Sub(pts[(k-1+len(pts))%len(pts)])
			out := pts[(k+1)%len(pts)].Sub(pts[k])
			d := in.Len() * out.Len()
			if d == 0 || in.Dot(out)/d >= cornerCos {
				continue
			}
			dst = append(dst, sp.Start+k)
			corners++
		}
		if corners > 0 {
			continue
		}
		for k := keyStride / 2; k < len(pts); k += keyStride {
			dst = append(dst, sp.Start+k)
		}
	}
	return dst
}

// segment draws one wireframe segment. Glow pass n offsets the line by n dots
// to each side, sparsely so the halo thins with distance.
func (h *Hologram) segment(a, b projected, pass int, level float64) {
	ca, cb := depthColor(a.z), depthColor(b.z)
	if pass == 0 {
		h.canvas.Line(a.x, a.y, b.x, b.y, ca, cb, level)
		return
	}
	off := float64(pass)
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*off, dx/l*off
	if int(math.Round(a.x+a.y))%(pass+1) != 0 {
		return
	}
	h.canvas.Line(a.x+nx, a.y+ny, b.x+nx, b.y+ny, ca, cb, level)
	h.canvas.Line(a.x-nx, a.y-ny, b.x-nx, b.y-ny, ca, cb, level)
}

func (h *Hologram) drawParticles(ps []particle.Particle, angle, alpha float64) {
	for i := range ps {
		p := &ps[i]
		n := p.Trail.Len()
		for k := range n {
			level := alpha * trailLevel * float64(k+1) / float64(n+1)
			if level < minLevel {
				continue
			}
			h.dot(p.Trail.At(k), angle, level)
		}
		h.dot(p.Position, angle, alpha)
	}
}

func (h *Hologram) dot(p geom.Point3, angle, level float64) {
	q := h.project(p, angle)
	if !q.ok {
		return
	}
	h.canvas.Dot(int(math.Round(q.x)), int(math.Round(q.y)), depthColor(q.z), level)
}

// drawHand marks the anchor with a small cross.
func (h *Hologram) drawHand(a geom.Point3, angle float64) {
	q := h.project(a, angle)
	if !q.ok {
		return
	}
	x, y := int(math.Round(q.x)), int(math.Round(q.y))
	for d := -2; d <= 2; d++ {
		h.canvas.Dot(x+d, y, colorHand, 1)
		h.canvas.Dot(x, y+d, colorHand, 1)
	}
}
