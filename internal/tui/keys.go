package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Cards     key.Binding
	Groups    key.Binding
	Undo      key.Binding
	Mode      key.Binding
	System    key.Binding
	MoreDecks key.Binding
	LessDecks key.Binding
	Reset     key.Binding
	Inventory key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Cards: key.NewBinding(
			key.WithKeys("2", "3", "4", "5", "6", "7", "8", "9", "0", "t", "j", "q", "k", "a"),
			key.WithHelp("2-9 0 j q k a", "record card"),
		),
		Groups: key.NewBinding(
			key.WithKeys("l", "n", "h"),
			key.WithHelp("l n h", "low/neutral/high"),
		),
		Undo: key.NewBinding(
			key.WithKeys("backspace", "u"),
			key.WithHelp("⌫/u", "undo"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "input mode"),
		),
		System: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "next system"),
		),
		MoreDecks: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more decks"),
		),
		LessDecks: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer decks"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new shoe"),
		),
		Inventory: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "inventory"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "pgup"),
			key.WithHelp("↑/pgup", "scroll log"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("down", "pgdown"),
			key.WithHelp("↓/pgdn", "scroll log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cards, k.Groups, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Cards, k.Groups, k.Undo, k.Reset},
		{k.Mode, k.System, k.MoreDecks, k.LessDecks},
		{k.Inventory, k.ScrollUp, k.ScrollDn, k.Help, k.Quit},
	}
}
