package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the colour palette.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles are the pre-built lipgloss styles used by the views.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Card     lipgloss.Style
	CardHost lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds styles from theme; nil selects DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(theme.Error),
		Notice: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Warning).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		CardHost: lipgloss.NewStyle().Foreground(theme.Secondary),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
	}
}
