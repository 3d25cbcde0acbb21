package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusStopped = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

// StatusBar renders the single line shown below the canvas.
func StatusBar(state string, circles int, fps float64, gx, gy float64, width int) string {
	var status string
	switch state {
	case "running":
		status = StatusRunning.Render("● RUNNING")
	case "paused":
		status = StatusPaused.Render("❚❚ PAUSED")
	default:
		status = StatusStopped.Render("■ " + strings.ToUpper(state))
	}

	parts := []string{
		status,
		MetricLabel.Render("circles ") + MetricValue.Render(fmt.Sprintf("%d", circles)),
		MetricLabel.Render("fps ") + MetricValue.Render(fmt.Sprintf("%.1f", fps)),
		MetricLabel.Render("g ") + MetricValue.Render(fmt.Sprintf("(%.1f, %.1f)", gx, gy)),
		KeyHint.Render("click: circle  arrows: tilt  space: pause  q: quit"),
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, "  "))
}
