package gesture

import (
	"sync"
	"testing"
	"time"

	"github.com/olivier-w/holoforge/internal/geom"
)

// hand builds a hand with the wrist at the bottom centre and each finger
// either pointing up (extended) or curled below its middle joint.
func hand(thumb, index, middle, ring, pinky bool) Hand {
	var h Hand
	h[wrist] = Landmark{X: 0.5, Y: 0.9}
	h[1] = Landmark{X: 0.45, Y: 0.85}
	h[2] = Landmark{X: 0.42, Y: 0.8}
	h[thumbIP] = Landmark{X: 0.4, Y: 0.75}
	h[thumbTip] = Landmark{X: 0.45, Y: 0.74}
	if thumb {
		h[thumbTip] = Landmark{X: 0.3, Y: 0.7}
	}
	up := [4]bool{index, middle, ring, pinky}
	for i := range 4 {
		x := 0.44 + 0.04*float64(i)
		base := 1 + 4*(i+1)
		// MCP, PIP, DIP, then a tip curled below the PIP.
		h[base] = Landmark{X: x, Y: 0.7}
		h[base+1] = Landmark{X: x, Y: 0.6}
		h[base+2] = Landmark{X: x, Y: 0.55}
		h[base+3] = Landmark{X: x + 0.1, Y: 0.65}
		if up[i] {
			h[base+2] = Landmark{X: x, Y: 0.5}
			h[base+3] = Landmark{X: x, Y: 0.4}
		}
	}
	return h
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		h    Hand
		want Pose
	}{
		{"palm", hand(true, true, true, true, true), OpenPalm},
		{"fist", hand(false, false, false, false, false), Fist},
		{"peace", hand(false, true, true, false, false), Peace},
		{"thumbs up", hand(true, false, false, false, false), ThumbsUp},
		{"three", hand(false, true, true, true, false), Neutral},
	}
	for _, c := range cases {
		if got := c.h.Classify(); got != c.want {
			t.Fatalf("%s: expected %s, got %s (fingers %v)", c.name, c.want, got, c.h.Fingers())
		}
	}
}

func TestClassifyPinch(t *testing.T) {
	h := hand(false, true, false, false, false)
	h[thumbTip] = Landmark{X: 0.44, Y: 0.41}
	if got := h.Classify(); got != Pinch {
		t.Fatalf("expected pinch at %.1fpx, got %s", h.PinchDistance(), got)
	}
}

func TestPalmAnchor(t *testing.T) {
	var h Hand
	for i := range h {
		h[i] = Landmark{X: 0.75, Y: 0.25, Z: 0.1}
	}
	got := h.PalmAnchor()
	want := geom.Pt(50, 50, 15)
	if got.Distance(want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRecognizerHoldsBeforeScatter(t *testing.T) {
	r := NewRecognizer(300*time.Millisecond, 2*time.Second)
	t0 := time.Unix(100, 0)
	a := geom.Pt(1, 2, 3)
	if s := r.Observe(OpenPalm, a, true, t0); s.Kind != None || !s.HasAnchor {
		t.Fatalf("expected anchored none before hold time, got %+v", s)
	}
	if s := r.Observe(OpenPalm, a, true, t0.Add(200*time.Millisecond)); s.Kind != None {
		t.Fatalf("expected none at 200ms, got %s", s.Kind)
	}
	if s := r.Observe(OpenPalm, a, true, t0.Add(300*time.Millisecond)); s.Kind != Scatter || s.Anchor != a {
		t.Fatalf("expected scatter at 300ms, got %+v", s)
	}
	// Switching pose restarts the hold.
	if s := r.Observe(Pinch, a, true, t0.Add(400*time.Millisecond)); s.Kind != None {
		t.Fatalf("expected none right after switching, got %s", s.Kind)
	}
	if s := r.Observe(Pinch, a, true, t0.Add(800*time.Millisecond)); s.Kind != Attract {
		t.Fatalf("expected attract, got %s", s.Kind)
	}
}

func TestRecognizerSkipCooldown(t *testing.T) {
	r := NewRecognizer(300*time.Millisecond, 2*time.Second)
	t0 := time.Unix(100, 0)
	if s := r.Observe(Peace, geom.Point3{}, true, t0); s.Kind != Skip {
		t.Fatalf("expected first skip, got %s", s.Kind)
	}
	if s := r.Observe(Peace, geom.Point3{}, true, t0.Add(time.Second)); s.Kind != None {
		t.Fatalf("expected held peace not to repeat, got %s", s.Kind)
	}
	r.Observe(Neutral, geom.Point3{}, true, t0.Add(1100*time.Millisecond))
	if s := r.Observe(Peace, geom.Point3{}, true, t0.Add(1500*time.Millisecond)); s.Kind != None {
		t.Fatalf("expected skip within cooldown to be dropped, got %s", s.Kind)
	}
	r.Observe(Neutral, geom.Point3{}, true, t0.Add(2100*time.Millisecond))
	if s := r.Observe(Peace, geom.Point3{}, true, t0.Add(2200*time.Millisecond)); s.Kind != Skip {
		t.Fatalf("expected skip after cooldown, got %s", s.Kind)
	}
}

func TestRecognizerFistToggle(t *testing.T) {
	r := NewRecognizer(300*time.Millisecond, 2*time.Second)
	t0 := time.Unix(100, 0)
	if s := r.Observe(Fist, geom.Point3{}, true, t0); s.Kind != Freeze {
		t.Fatalf("expected freeze on first fist, got %s", s.Kind)
	}
	r.Observe(Fist, geom.Point3{}, true, t0.Add(time.Second))
	if !r.Frozen() {
		t.Fatal("expected holding the fist to keep freeze on")
	}
	if s := r.Observe(Neutral, geom.Point3{}, false, t0.Add(2*time.Second)); s.Kind != Freeze || s.HasAnchor {
		t.Fatalf("expected freeze to persist without a hand, got %+v", s)
	}
	if s := r.Observe(Fist, geom.Point3{}, true, t0.Add(3*time.Second)); s.Kind != None || r.Frozen() {
		t.Fatalf("expected second fist to unfreeze, got %s", s.Kind)
	}
}

func TestSlotDeliversSkipOnce(t *testing.T) {
	var s Slot
	if got := s.Latest(); got.Kind != None || got.HasAnchor {
		t.Fatalf("expected empty sample, got %+v", got)
	}
	a := geom.Pt(4, 5, 6)
	s.Publish(Sample{Kind: Skip, Anchor: a, HasAnchor: true})
	if got := s.Latest(); got.Kind != Skip {
		t.Fatalf("expected skip, got %s", got.Kind)
	}
	if got := s.Latest(); got.Kind != None || got.Anchor != a {
		t.Fatalf("expected anchored none after skip, got %+v", got)
	}
	s.Publish(Sample{Kind: Scatter})
	for range 3 {
		if got := s.Latest(); got.Kind != Scatter {
			t.Fatalf("expected scatter to persist, got %s", got.Kind)
		}
	}
}

func TestSlotConcurrentPublish(t *testing.T) {
	var s Slot
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				s.Publish(Sample{Kind: Kind((i + j) % 4), HasAnchor: true})
			}
		}()
	}
	for range 100 {
		s.Latest()
	}
	wg.Wait()
	if !s.Latest().HasAnchor {
		t.Fatal("expected a published sample")
	}
}

func TestAbsent(t *testing.T) {
	var src Source = Absent{}
	if got := src.Latest(); got != (Sample{}) {
		t.Fatalf("expected zero sample, got %+v", got)
	}
}
