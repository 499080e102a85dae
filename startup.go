package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/olivier-w/holoforge/internal/config"
	"github.com/olivier-w/holoforge/internal/engine"
	"github.com/olivier-w/holoforge/internal/gesture"
	"github.com/olivier-w/holoforge/internal/shape"
	"github.com/olivier-w/holoforge/internal/ui"
)

func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	m := newStartupModel(c.cfg, new(gesture.Slot), c.logger)
	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	final, err := program.Run()
	if err != nil {
		return err
	}
	if s, ok := final.(startupModel); ok && s.err != nil {
		return s.err
	}
	return nil
}

type primeStatus struct {
	id    shape.ID
	done  int
	total int
}

type primeStatusMsg primeStatus

type engineReadyMsg struct {
	engine *engine.Engine
	err    error
}

// startupModel shows progress while the shapes are generated, then hands
// over to the animation.
type startupModel struct {
	cfg      config.Config
	slot     *gesture.Slot
	logger   *log.Logger
	width    int
	height   int
	spinner  spinner.Model
	progress progress.Model
	status   primeStatus
	statusCh chan primeStatus
	err      error
}

func newStartupModel(cfg config.Config, slot *gesture.Slot, logger *log.Logger) startupModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#00FFFF", "#FF0066"),
		progress.WithoutPercentage(),
	)

	return startupModel{
		cfg:      cfg,
		slot:     slot,
		logger:   logger,
		spinner:  s,
		progress: p,
		status:   primeStatus{total: shape.Count},
		statusCh: make(chan primeStatus, shape.Count),
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForStatus(),
		buildEngineCmd(m.cfg, m.slot, m.logger, m.statusCh),
	)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.err != nil {
			return m, nil
		}
		return m, cmd

	case primeStatusMsg:
		m.status = primeStatus(msg)
		return m, m.waitForStatus()

	case engineReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("engine failed to start", "err", msg.err)
			return m, tea.Quit
		}
		model := ui.New(msg.engine, m.slot)
		cmds := []tea.Cmd{model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return model, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}
	return m, nil
}

func (m startupModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return primeStatusMsg(status)
	}
}

func buildEngineCmd(cfg config.Config, slot *gesture.Slot, logger *log.Logger, statusCh chan primeStatus) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		p := newStopwatch(logger)
		e, err := engine.New(cfg, slot, logger, engine.WithPrimeProgress(func(id shape.ID, done, total int) {
			select {
			case statusCh <- primeStatus{id: id, done: done, total: total}:
			default:
			}
		}))
		if err == nil {
			p.done("shapes generated", "samples", cfg.SampleCount)
		}
		return engineReadyMsg{engine: e, err: err}
	}
}

func (m startupModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("holoforge"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString("  ")
		b.WriteString(startupErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	label := "Generating shapes..."
	if m.status.done > 0 {
		label = fmt.Sprintf("Generated %s", m.status.id)
	}
	b.WriteString(startupStatusStyle.Render(label))
	b.WriteString("\n  ")
	b.WriteString(m.progress.ViewAs(float64(m.status.done) / float64(max(m.status.total, 1))))
	b.WriteString(fmt.Sprintf("  %d/%d\n", m.status.done, m.status.total))

	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
