package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/holoforge/internal/config"
	"github.com/olivier-w/holoforge/internal/engine"
	"github.com/olivier-w/holoforge/internal/gesture"
	"github.com/olivier-w/holoforge/internal/shape"
	"github.com/olivier-w/holoforge/internal/transition"
)

func newTestModel(t *testing.T) (Model, *gesture.Slot) {
	t.Helper()
	c := config.Default()
	c.SampleCount = 300
	c.ParticleCount = 40
	slot := new(gesture.Slot)
	e, err := engine.New(c, slot, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := New(e, slot).handleMsg(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, slot
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// frames feeds n frame messages spaced by step starting at t0 and returns the
// time of the last one.
func frames(m *Model, t0 time.Time, n int, step time.Duration) time.Time {
	now := t0
	for i := range n {
		now = t0.Add(time.Duration(i) * step)
		*m, _ = m.handleMsg(frameMsg(now))
	}
	return now
}

func TestFrameAdvancesEngine(t *testing.T) {
	m, _ := newTestModel(t)
	t0 := time.Unix(1000, 0)

	next, cmd := m.handleMsg(frameMsg(t0))
	if cmd == nil {
		t.Fatal("expected next frame command")
	}
	if next.engine.State().Clock != 0 {
		t.Fatalf("expected first frame to use zero dt, got clock %v", next.engine.State().Clock)
	}
	next, _ = next.handleMsg(frameMsg(t0.Add(50 * time.Millisecond)))
	if got := next.engine.State().Clock; got < 0.049 || got > 0.051 {
		t.Fatalf("expected clock 0.05, got %v", got)
	}
}

func TestFrameDeltaClamped(t *testing.T) {
	m, _ := newTestModel(t)
	t0 := time.Unix(1000, 0)
	m, _ = m.handleMsg(frameMsg(t0))
	m, _ = m.handleMsg(frameMsg(t0.Add(5 * time.Second)))
	if got := m.frame.Dt; got != m.engine.Config().MaxFrameDelta {
		t.Fatalf("expected stalled frame clamped to %v, got %v", m.engine.Config().MaxFrameDelta, got)
	}
}

func TestSkipKeyStartsDissolve(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(keyMsg(" "))
	frames(&m, time.Unix(1000, 0), 2, 16*time.Millisecond)
	if m.frame.Phase != transition.Dissolving {
		t.Fatalf("expected dissolving, got %v", m.frame.Phase)
	}
	if m.frame.Next != shape.TorusKnot {
		t.Fatalf("expected next Torus Knot, got %v", m.frame.Next)
	}
}

func TestDigitJumpsToShape(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(keyMsg("4"))
	if got := m.engine.State().Next; got != shape.Cube {
		t.Fatalf("expected next Wireframe Cube, got %v", got)
	}
	m, _ = m.handleMsg(keyMsg("9"))
	if got := m.engine.State().Next; got != shape.Cube {
		t.Fatalf("expected unbound digit ignored, got %v", got)
	}
}

func TestToggles(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = m.handleMsg(keyMsg("s"))
	if m.engine.Order() != transition.Shuffle {
		t.Fatalf("expected shuffle order, got %v", m.engine.Order())
	}
	if !strings.Contains(m.footer, "[shuffle]") {
		t.Fatalf("expected shuffle icon in status, got %q", m.footer)
	}

	m, _ = m.handleMsg(keyMsg("f"))
	if !m.engine.Frozen() {
		t.Fatal("expected freeze on")
	}

	m, _ = m.handleMsg(keyMsg("r"))
	if m.rotating {
		t.Fatal("expected rotation off")
	}

	m, _ = m.handleMsg(keyMsg("v"))
	if got := m.views[m.view].Name(); got != "wireframe" {
		t.Fatalf("expected wireframe view, got %q", got)
	}
	m, _ = m.handleMsg(keyMsg("v"))
	m, _ = m.handleMsg(keyMsg("v"))
	if m.view != 0 {
		t.Fatalf("expected view cycle to wrap, got %d", m.view)
	}
}

func TestRotationEasesToStop(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(keyMsg("r"))
	t0 := time.Unix(1000, 0)
	frames(&m, t0, 2, 16*time.Millisecond)
	moving := m.angle
	frames(&m, t0.Add(time.Second), 240, 16*time.Millisecond)
	settled := m.angle
	frames(&m, t0.Add(10*time.Second), 10, 16*time.Millisecond)
	if moving == 0 {
		t.Fatal("expected rotation to coast before stopping")
	}
	if d := m.angle - settled; d > 1e-3 || d < -1e-3 {
		t.Fatalf("expected rotation settled, still moved %v", d)
	}
}

func TestLeftDragScattersAfterHold(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(tea.MouseMsg{X: 60, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.pointer.down || m.pointer.pose != gesture.OpenPalm {
		t.Fatalf("expected open palm pointer, got %+v", m.pointer)
	}

	t0 := time.Unix(1000, 0)
	m, _ = m.handleMsg(frameMsg(t0))
	if m.frame.Gesture.Kind != gesture.None {
		t.Fatalf("expected no force before hold time, got %v", m.frame.Gesture.Kind)
	}
	m, _ = m.handleMsg(frameMsg(t0.Add(400 * time.Millisecond)))
	if m.frame.Gesture.Kind != gesture.Scatter {
		t.Fatalf("expected scatter after hold, got %v", m.frame.Gesture.Kind)
	}
	if !m.frame.Gesture.HasAnchor || m.frame.Gesture.Anchor.X <= 0 {
		t.Fatalf("expected anchor right of centre, got %+v", m.frame.Gesture)
	}

	m, _ = m.handleMsg(tea.MouseMsg{X: 60, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m, _ = m.handleMsg(frameMsg(t0.Add(420 * time.Millisecond)))
	if m.frame.Gesture.Kind != gesture.None {
		t.Fatalf("expected release to clear the force, got %v", m.frame.Gesture.Kind)
	}
}

func TestMiddleClickSkipsOnce(t *testing.T) {
	m, slot := newTestModel(t)
	m, _ = m.handleMsg(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonMiddle})
	t0 := time.Unix(1000, 0)
	m, _ = m.handleMsg(frameMsg(t0))
	if m.frame.Phase != transition.Dissolving {
		t.Fatalf("expected skip gesture to start a dissolve, got %v", m.frame.Phase)
	}
	if slot.Latest().Kind != gesture.None {
		t.Fatal("expected skip consumed by the engine")
	}
	m, _ = m.handleMsg(frameMsg(t0.Add(16 * time.Millisecond)))
	if m.engine.State().Transitions != 1 {
		t.Fatalf("expected one transition, got %d", m.engine.State().Transitions)
	}
}

func TestShiftClickTogglesFreeze(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(tea.MouseMsg{X: 40, Y: 10, Shift: true, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = m.handleMsg(frameMsg(time.Unix(1000, 0)))
	if !m.frame.Frozen {
		t.Fatal("expected fist to freeze particles")
	}
}

func TestWheelIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.pointer.down {
		t.Fatal("expected wheel to leave the pointer up")
	}
}

func TestViewFillsWindow(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(frameMsg(time.Unix(1000, 0)))

	view := m.View()
	if got := lipgloss.Height(view); got != 30 {
		t.Fatalf("expected view height 30, got %d", got)
	}
	if !strings.Contains(view, "DNA Double Helix") {
		t.Fatalf("expected shape name in header, got %q", m.header)
	}
	if !strings.Contains(view, "quit") {
		t.Fatal("expected help line")
	}
}

func TestFPSGraphShrinksCanvas(t *testing.T) {
	m, _ := newTestModel(t)
	_, rows := m.canvasSize()
	m, _ = m.handleMsg(keyMsg("p"))
	now := time.Unix(1000, 0)
	for i := range 6 {
		now = now.Add(time.Duration(14+i) * time.Millisecond)
		m, _ = m.handleMsg(frameMsg(now))
	}
	_, withGraph := m.canvasSize()
	if withGraph >= rows {
		t.Fatalf("expected graph to take rows from the canvas, got %d then %d", rows, withGraph)
	}
	if lipgloss.Height(m.View()) != 30 {
		t.Fatalf("expected view height 30, got %d", lipgloss.Height(m.View()))
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := m.handleMsg(keyMsg("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestPushFPS(t *testing.T) {
	var h []float64
	for i := range fpsHistory + 10 {
		h = pushFPS(h, float64(i))
	}
	if len(h) != fpsHistory || h[0] != 10 || h[len(h)-1] != fpsHistory+9 {
		t.Fatalf("expected last %d samples, got len %d [%v..%v]", fpsHistory, len(h), h[0], h[len(h)-1])
	}
}

func TestRenderProgressBar(t *testing.T) {
	if got := renderProgressBar(0.5, 12); got != "━━━━━─────" {
		t.Fatalf("expected half bar, got %q", got)
	}
	if got := renderProgressBar(2, 12); strings.Contains(got, "─") {
		t.Fatalf("expected full bar, got %q", got)
	}
}
