package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/holoforge/internal/shape"
)

type keyMap struct {
	Skip    key.Binding
	Shape   key.Binding
	Freeze  key.Binding
	Rotate  key.Binding
	Shuffle key.Binding
	View    key.Binding
	FPS     key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Skip: key.NewBinding(
			key.WithKeys(" ", "n"),
			key.WithHelp("space", "next shape"),
		),
		Shape: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
			key.WithHelp("1-7", "jump to shape"),
		),
		Freeze: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "freeze"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rotation"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shuffle"),
		),
		View: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "view"),
		),
		FPS: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "fps"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Skip, k.Freeze, k.View, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Skip, k.Shape, k.Shuffle},
		{k.Freeze, k.Rotate, k.View},
		{k.FPS, k.Help, k.Quit},
	}
}

// shapeKey returns the shape bound to a digit key.
func shapeKey(msg tea.KeyMsg) (shape.ID, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '0'+shape.Count {
		return 0, false
	}
	return shape.Wrap(int(s[0] - '1')), true
}
