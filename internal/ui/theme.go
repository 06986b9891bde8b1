package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the now-playing screen.
type Theme struct {
	Name string

	Background string
	Surface    string
	Selection  string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Logo      lipgloss.Style
	Title     lipgloss.Style
	Text      lipgloss.Style
	MutedText lipgloss.Style
	Accent    lipgloss.Style
	Banner    lipgloss.Style
	Active    lipgloss.Style
	Danger    lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Banner: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Warning)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1),
		Active: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Selection)).
			Foreground(lipgloss.Color(t.Text)).
			Bold(true),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
	}
}

var themes = map[string]Theme{
	"midnight": midnightTheme(),
	"paper":    paperTheme(),
}

var themeOrder = []string{"midnight", "paper"}

// GetTheme returns a theme by name, or the first theme when unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return midnightTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func midnightTheme() Theme {
	// Dracula palette
	return Theme{
		Name:       "midnight",
		Background: "#191A21",
		Surface:    "#282A36",
		Selection:  "#44475A",
		Text:       "#F8F8F2",
		Muted:      "#6272A4",
		Accent:     "#BD93F9",
		Success:    "#50FA7B",
		Warning:    "#FFB86C",
		Danger:     "#FF5555",
	}
}

func paperTheme() Theme {
	// Tailwind slate, light
	return Theme{
		Name:       "paper",
		Background: "#f8fafc",
		Surface:    "#e2e8f0",
		Selection:  "#bae6fd",
		Text:       "#0f172a",
		Muted:      "#64748b",
		Accent:     "#0284c7",
		Success:    "#16a34a",
		Warning:    "#d97706",
		Danger:     "#dc2626",
	}
}
