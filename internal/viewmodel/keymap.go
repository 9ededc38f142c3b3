// Package viewmodel derives the interactive view state (spec §4.5) from
// keyboard/mouse input against a history.Store snapshot: opened tree
// nodes, the selected topic, the selected history row (as an
// offset-from-newest so it survives new inserts), search query, and the
// JSON drill-down path. It never touches the store directly except to
// read snapshots — all mutation is local, intent-only state.
//
// Grounded on ankel-ankel-log-speed/program/main.go's keyMap/keys split
// (bubbles/key bindings + ShortHelp/FullHelp), generalized from one flat
// keymap to a per-focus dispatch table.
package viewmodel

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the full canonical binding table from spec §4.5.
type KeyMap struct {
	Quit         key.Binding
	Up           key.Binding
	Down         key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Home         key.Binding
	End          key.Binding
	Left         key.Binding
	Right        key.Binding
	Toggle       key.Binding
	ExpandAll    key.Binding
	CollapseAll  key.Binding
	Tab          key.Binding
	Search       key.Binding
	Delete       key.Binding
	SearchCommit key.Binding
	SearchCancel key.Binding
}

// DefaultKeyMap builds the binding table exactly as spec §4.5 lists it.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "half page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "collapse all"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle focus"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "backspace"),
			key.WithHelp("del", "clean / remove"),
		),
		SearchCommit: key.NewBinding(key.WithKeys("enter")),
		SearchCancel: key.NewBinding(key.WithKeys("esc")),
	}
}

// ShortHelp implements help.KeyMap for the always-visible hint line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Toggle, k.Search, k.Quit}
}

// FullHelp implements help.KeyMap for the expanded footer.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.HalfPageUp, k.HalfPageDown, k.Home, k.End},
		{k.Left, k.Right, k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.Tab, k.Search, k.Delete, k.Quit},
	}
}
