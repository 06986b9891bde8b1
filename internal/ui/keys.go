package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the now-playing bindings.
type keyMap struct {
	Toggle      key.Binding
	Next        key.Binding
	Previous    key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	Lyrics      key.Binding
	Karaoke     key.Binding
	CycleTheme  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "Play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Previous"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Back 10s"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Forward 10s"),
		),
		Lyrics: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Plain/karaoke lyrics"),
		),
		Karaoke: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "Vocal/backing track"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Previous, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Next, k.Previous, k.SeekBack, k.SeekForward},
		{k.Lyrics, k.Karaoke, k.CycleTheme, k.Help, k.Quit},
	}
}
