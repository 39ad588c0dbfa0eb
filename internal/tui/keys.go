package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Actions
	Quit    key.Binding
	Search  key.Binding
	Refresh key.Binding
	Play    key.Binding

	// Filters
	Movies       key.Binding
	Shows        key.Binding
	Watched      key.Binding
	Unwatched    key.Binding
	Sort         key.Binding
	PrevSeason   key.Binding
	NextSeason   key.Binding
	AllSeasons   key.Binding
	SelectSeason key.Binding
	ToggleSeason key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "h"),
			key.WithHelp("esc", "back"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play"),
		),
		Movies: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "movies"),
		),
		Shows: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "shows"),
		),
		Watched: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "watched"),
		),
		Unwatched: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unwatched"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		PrevSeason: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev season"),
		),
		NextSeason: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next season"),
		),
		AllSeasons: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all seasons"),
		),
		SelectSeason: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "select season"),
		),
		ToggleSeason: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "add season"),
		),
	}
}
