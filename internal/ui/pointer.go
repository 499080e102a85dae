package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/holoforge/internal/gesture"
)

// pointer is the mouse standing in for a tracked hand. Holding a button makes
// a pose at the cursor: left is an open palm, right a pinch, middle a peace
// sign and shift+left a fist.
type pointer struct {
	down     bool
	pose     gesture.Pose
	col, row int
}

// update tracks msg. top is the terminal row the canvas starts on.
func (p *pointer) update(msg tea.MouseMsg, top int) {
	p.col, p.row = msg.X, msg.Y-top
	switch msg.Action {
	case tea.MouseActionPress:
		if pose, ok := poseOf(msg); ok {
			p.down, p.pose = true, pose
		}
	case tea.MouseActionRelease:
		p.down, p.pose = false, gesture.Neutral
	}
}

func poseOf(msg tea.MouseMsg) (gesture.Pose, bool) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Shift {
			return gesture.Fist, true
		}
		return gesture.OpenPalm, true
	case tea.MouseButtonRight:
		return gesture.Pinch, true
	case tea.MouseButtonMiddle:
		return gesture.Peace, true
	}
	return gesture.Neutral, false
}

// dot returns the centre of the pointer's cell in canvas dot coordinates.
func (p pointer) dot() (float64, float64) {
	return float64(p.col)*2 + 1, float64(p.row)*4 + 2
}
