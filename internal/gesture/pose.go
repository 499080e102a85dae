package gesture

import (
	"math"

	"github.com/olivier-w/holoforge/internal/geom"
)

// Landmark is a tracked hand keypoint. X and Y are normalized image
// coordinates in [0, 1] with Y pointing down; Z is relative depth.
type Landmark struct {
	X, Y, Z float64
}

// Hand is the 21-point hand skeleton: wrist, then four joints per finger from
// thumb to pinky.
type Hand [21]Landmark

const (
	wrist    = 0
	thumbIP  = 3
	thumbTip = 4
	indexTip = 8
)

var (
	fingerTips = [4]int{8, 12, 16, 20}
	fingerPIPs = [4]int{6, 10, 14, 18}
	palmPoints = [6]int{0, 1, 5, 9, 13, 17}
)

// pinchThreshold is the thumb-to-index distance, in pixels of a 720 px wide
// frame, under which the hand counts as pinching.
const (
	pinchThreshold = 40.0
	frameWidth     = 720.0
)

// Pose is a static hand shape.
type Pose int

const (
	Neutral Pose = iota
	OpenPalm
	Pinch
	Fist
	Peace
	ThumbsUp
)

func (p Pose) String() string {
	switch p {
	case OpenPalm:
		return "open palm"
	case Pinch:
		return "pinch"
	case Fist:
		return "fist"
	case Peace:
		return "peace"
	case ThumbsUp:
		return "thumbs up"
	default:
		return "neutral"
	}
}

// Fingers reports which fingers are extended, thumb first.
func (h *Hand) Fingers() [5]bool {
	var out [5]bool
	w := h[wrist]
	out[0] = math.Abs(h[thumbTip].X-w.X) > math.Abs(h[thumbIP].X-w.X)
	for i := range fingerTips {
		// Image Y grows downward, so an extended finger's tip is above its
		// middle joint.
		out[i+1] = h[fingerTips[i]].Y < h[fingerPIPs[i]].Y
	}
	return out
}

// PinchDistance returns the thumb-to-index tip distance in frame pixels.
func (h *Hand) PinchDistance() float64 {
	a, b := h[thumbTip], h[indexTip]
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx+dy*dy+dz*dz) * frameWidth
}

// Classify names the pose of h. Earlier matches win: an open palm beats a
// pinch, which beats a fist.
func (h *Hand) Classify() Pose {
	f := h.Fingers()
	all, anyUp := true, false
	for _, up := range f {
		all = all && up
		anyUp = anyUp || up
	}
	switch {
	case all:
		return OpenPalm
	case h.PinchDistance() < pinchThreshold:
		return Pinch
	case !anyUp:
		return Fist
	case f[1] && f[2] && !f[0] && !f[3] && !f[4]:
		return Peace
	case f[0] && !f[1] && !f[2] && !f[3] && !f[4]:
		return ThumbsUp
	}
	return Neutral
}

// PalmAnchor maps the palm centre to scene coordinates: x and y span ±100,
// depth is scaled by 150.
func (h *Hand) PalmAnchor() geom.Point3 {
	var x, y, z float64
	for _, i := range palmPoints {
		x += h[i].X
		y += h[i].Y
		z += h[i].Z
	}
	n := float64(len(palmPoints))
	return ScreenToScene(x/n, y/n, z/n)
}

// ScreenToScene maps normalized image coordinates to scene coordinates.
func ScreenToScene(x, y, depth float64) geom.Point3 {
	return geom.Pt((x-0.5)*200, -(y-0.5)*200, depth*150)
}
