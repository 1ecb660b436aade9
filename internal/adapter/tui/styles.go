package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorError   = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F6D"}
	colorOK      = lipgloss.AdaptiveColor{Light: "#2E8540", Dark: "#5FD787"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C177"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#3A3A3A"}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	okStyle       = lipgloss.NewStyle().Foreground(colorOK)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	supportStyle  = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	customerStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "open":
		return lipgloss.NewStyle().Foreground(colorWarning)
	case "pending", "in_progress":
		return lipgloss.NewStyle().Foreground(colorAccent)
	case "resolved", "closed":
		return lipgloss.NewStyle().Foreground(colorOK)
	}
	return mutedStyle
}
