// Package ui renders the grouped list in the terminal. Groups collapse and
// expand; that state lives only here and never touches the fetched data.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Destructive = lipgloss.Color("#e53935")
	Accent      = lipgloss.Color("#8BC34A")
)

// Theme holds the colors a Styles set is built from.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Selected   lipgloss.Color
	IsDark     bool
}

func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		Primary:    lipgloss.Color("#101F38"),
		Muted:      lipgloss.Color("#6b7280"),
		Selected:   lipgloss.Color("#e1e4e8"),
	}
}

func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Primary:    Accent,
		Muted:      lipgloss.Color("#8a94a6"),
		Selected:   lipgloss.Color("#2a3850"),
		IsDark:     true,
	}
}

// ThemeFor maps "light", "dark" or "auto" to a Theme; auto asks the terminal.
func ThemeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		if lipgloss.HasDarkBackground() {
			return DarkTheme()
		}
		return LightTheme()
	}
}

type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Header  lipgloss.Style
	Item    lipgloss.Style
	Cursor  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Spinner lipgloss.Style
	Footer  lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Header: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Item: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(4),

		Cursor: lipgloss.NewStyle().
			Background(theme.Selected),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(Accent),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			MarginTop(1),
	}
}

func DefaultStyles() Styles { return NewStyles(LightTheme()) }
