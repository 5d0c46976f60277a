package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Dialog   lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the site palette.
func DefaultStyles() *Styles {
	var (
		primary   = lipgloss.Color("#B76E79") // rose gold
		secondary = lipgloss.Color("#E8C4B8")
		muted     = lipgloss.Color("#8A8A8A")
		border    = lipgloss.Color("#5C4B51")
	)
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Italic(true).
			Foreground(secondary),
		Normal: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Label: lipgloss.NewStyle().
			Width(22).
			Foreground(muted),
		Focused: lipgloss.NewStyle().
			Width(22).
			Bold(true).
			Foreground(primary),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),
		Dialog: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
