package ui

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// fpsHistory is how many frames the FPS graph spans.
const fpsHistory = 90

func renderProgressBar(ratio float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderFPSGraph(history []float64, width int) string {
	if len(history) < 2 {
		return ""
	}
	last := history[len(history)-1]
	return asciigraph.Plot(history,
		asciigraph.Height(4),
		asciigraph.Width(max(width-12, 10)),
		asciigraph.Caption(fmt.Sprintf("%.0f fps", last)),
	)
}

// pushFPS appends v to the history, dropping the oldest sample when full.
func pushFPS(history []float64, v float64) []float64 {
	if len(history) == fpsHistory {
		copy(history, history[1:])
		history = history[:fpsHistory-1]
	}
	return append(history, v)
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
