package terminal

import "github.com/charmbracelet/lipgloss"

var (
	pink  = lipgloss.Color("#E75480")
	muted = lipgloss.Color("#8A7A80")
)

// Styles groups the lipgloss styles used by the terminal renderer.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Muted lipgloss.Style
	Card  lipgloss.Style
	Error lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(pink).
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Width(labelWidth),
		Value: lipgloss.NewStyle().
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(0, 2),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true),
	}
}
