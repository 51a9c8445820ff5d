package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the grid key bindings.
type keyMap struct {
	Today    key.Binding
	Prev     key.Binding
	Next     key.Binding
	Day      key.Binding
	ThreeDay key.Binding
	Week     key.Binding
	Dark     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Prev: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next"),
		),
		Day: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "day"),
		),
		ThreeDay: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "3 days"),
		),
		Week: key.NewBinding(
			key.WithKeys("7", "w"),
			key.WithHelp("7/w", "week"),
		),
		Dark: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dark mode"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Today, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Today},
		{k.Day, k.ThreeDay, k.Week},
		{k.Dark, k.Reload},
		{k.Help, k.Quit},
	}
}
