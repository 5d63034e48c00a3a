package menu

import "github.com/charmbracelet/lipgloss"

// CursorMarker is the prefix shown on the selected menu row.
const CursorMarker = "▸ "

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
)

// statusLine renders a status message, red for failures.
func statusLine(text string, failed bool) string {
	if text == "" {
		return ""
	}
	if failed {
		return errorStyle.Render(text)
	}
	return successStyle.Render(text)
}
