package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/holoforge/internal/engine"
	"github.com/olivier-w/holoforge/internal/geom"
	"github.com/olivier-w/holoforge/internal/gesture"
	"github.com/olivier-w/holoforge/internal/render"
	"github.com/olivier-w/holoforge/internal/shape"
	"github.com/olivier-w/holoforge/internal/transition"
)

// Model is the Bubbletea model for the holoforge TUI.
type Model struct {
	engine *engine.Engine
	slot   *gesture.Slot
	rec    *gesture.Recognizer
	keys   keyMap
	help   help.Model

	views  []render.View
	view   int
	camera render.Camera

	width    int
	height   int
	quitting bool

	frame    engine.Frame
	last     time.Time
	angle    float64
	rotating bool
	spin     springField // rotation speed
	cursor   springField // anchor in dot coordinates
	pointer  pointer
	anchor   geom.Point3

	showFPS bool
	fps     []float64

	header string
	footer string
}

// New creates a Model driving e. Mouse gestures are published to slot, which
// should be the engine's gesture source; a nil slot disables them.
func New(e *engine.Engine, slot *gesture.Slot) Model {
	cfg := e.Config()
	cam := render.Camera{Distance: cfg.CameraDistance, FOV: cfg.FOV}
	m := Model{
		engine:   e,
		slot:     slot,
		rec:      gesture.NewRecognizer(cfg.GestureHold(), cfg.SkipCooldownDuration()),
		keys:     newKeyMap(),
		help:     help.New(),
		views:    render.Modes(render.Options{Camera: cam, GlowPasses: cfg.GlowPasses}),
		camera:   cam,
		rotating: true,
		spin:     newSpringField(cfg.FrameRate, 1, 2.0, 1.0),
		cursor:   newSpringField(cfg.FrameRate, 2, 12.0, 0.9),
	}
	m.spin.snap(0, cfg.AutoRotateSpeed)
	m.frame = e.Step(0)
	m.layout()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.engine.Config().FrameInterval()),
		tea.SetWindowTitle(windowTitle(m.frame.Current)),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.pointer.update(msg, lipgloss.Height(m.header))
		if msg.Action == tea.MouseActionPress && m.pointer.down {
			x, y := m.pointer.dot()
			m.cursor.snap(0, x)
			m.cursor.snap(1, y)
		}
		return m, nil

	case frameMsg:
		return m.advance(time.Time(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Skip):
		m.engine.Skip()
	case key.Matches(msg, m.keys.Shape):
		if id, ok := shapeKey(msg); ok {
			m.engine.SkipTo(id)
		}
	case key.Matches(msg, m.keys.Freeze):
		m.engine.ToggleFreeze()
	case key.Matches(msg, m.keys.Rotate):
		m.rotating = !m.rotating
	case key.Matches(msg, m.keys.Shuffle):
		m.engine.SetOrder(m.engine.Order().Toggle())
	case key.Matches(msg, m.keys.View):
		m.view = (m.view + 1) % len(m.views)
	case key.Matches(msg, m.keys.FPS):
		m.showFPS = !m.showFPS
		m.fps = nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		return m, nil
	}
	m.layout()
	return m, nil
}

// advance runs one animation frame at wall time now.
func (m Model) advance(now time.Time) (Model, tea.Cmd) {
	cfg := m.engine.Config()
	dt := 0.0
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	if m.showFPS && dt > 0 {
		m.fps = pushFPS(m.fps, 1/dt)
	}

	target := 0.0
	if m.rotating {
		target = cfg.AutoRotateSpeed
	}
	speed := m.spin.step(0, target)

	prev := m.frame.Current
	m.observe(now)
	m.frame = m.engine.Step(dt)
	m.angle = math.Mod(m.angle+speed*m.frame.Dt, 2*math.Pi)
	m.layout()
	m.draw()

	cmds := []tea.Cmd{frameCmd(cfg.FrameInterval())}
	if m.frame.Current != prev {
		cmds = append(cmds, tea.SetWindowTitle(windowTitle(m.frame.Current)))
	}
	return m, tea.Batch(cmds...)
}

// observe turns the pointer into a gesture sample for the engine.
func (m *Model) observe(now time.Time) {
	if m.slot == nil {
		return
	}
	if m.pointer.down {
		x, y := m.pointer.dot()
		x, y = m.cursor.step(0, x), m.cursor.step(1, y)
		cols, rows := m.canvasSize()
		m.anchor = m.camera.Unproject(x, y, m.angle, cols*2, rows*4)
	}
	m.slot.Publish(m.rec.Observe(m.pointer.pose, m.anchor, m.pointer.down, now))
}

func (m *Model) draw() {
	cols, rows := m.canvasSize()
	if cols < 1 || rows < 1 {
		return
	}
	m.views[m.view].Update(render.Scene{
		Geometry:  m.frame.Geometry,
		Particles: m.frame.Particles,
		Alpha:     m.frame.Alpha,
		Angle:     m.angle,
		Anchor:    m.anchor,
		HasAnchor: m.pointer.down,
	}, cols, rows)
}

// canvasSize returns the terminal cells left for the canvas.
func (m Model) canvasSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 0, 0
	}
	return m.width, m.height - lipgloss.Height(m.header) - lipgloss.Height(m.footer)
}

// phaseRatio is how far the cycle is through the current phase.
func (m Model) phaseRatio() float64 {
	if m.frame.Phase == transition.Holding {
		return m.engine.State().Elapsed / m.engine.Config().ShapeHoldTime
	}
	return m.frame.Progress
}

// layout rebuilds the header and footer around the canvas.
func (m *Model) layout() {
	w := max(m.width, 40)

	phase := m.frame.Phase.String()
	if m.frame.Phase != transition.Holding {
		phase += " → " + m.frame.Next.String()
	}
	left := "  " + headerStyle.Render("holoforge") + "  " +
		titleStyle.Render(m.frame.Current.String()) + "  " +
		phaseStyle.Render(phase)
	bar := renderProgressBar(m.phaseRatio(), w-lipgloss.Width(left)-2)
	m.header = left + " " + statusStyle.Render(bar)

	var flags []string
	if icon := m.engine.Order().Icon(); icon != "" {
		flags = append(flags, icon)
	}
	if m.frame.Frozen {
		flags = append(flags, "[frozen]")
	}
	if !m.rotating {
		flags = append(flags, "[still]")
	}
	if k := m.frame.Gesture.Kind; k != gesture.None {
		flags = append(flags, "hand "+k.String())
	}
	status := m.views[m.view].Name()
	if len(flags) > 0 {
		status += "  " + strings.Join(flags, "  ")
	}
	count := statusStyle.Render(fmt.Sprintf("%d particles", len(m.frame.Particles)))
	gap := w - lipgloss.Width(status) - lipgloss.Width(count) - 4
	statusLine := "  " + statusStyle.Render(status) + spaces(max(gap, 2)) + count

	var b strings.Builder
	if m.showFPS {
		if graph := renderFPSGraph(m.fps, w); graph != "" {
			b.WriteString(graphStyle.Render(graph))
			b.WriteString("\n")
		}
	}
	b.WriteString(statusLine)
	b.WriteString("\n  ")
	b.WriteString(m.help.View(m.keys))
	m.footer = b.String()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	canvas := ""
	if _, rows := m.canvasSize(); rows >= 1 {
		canvas = m.views[m.view].View()
	}
	return m.header + "\n" + canvas + "\n" + m.footer
}

func windowTitle(id shape.ID) string {
	return "◆ " + id.String() + " · holoforge"
}
