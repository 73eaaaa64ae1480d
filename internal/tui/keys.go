package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the console's key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextNav  key.Binding
	PrevNav  key.Binding
	Select   key.Binding
	Back     key.Binding
	Refresh  key.Binding
	Search   key.Binding
	Approve  key.Binding
	Deny     key.Binding
	Return   key.Binding
	Delete   key.Binding
	New      key.Binding
	Edit     key.Binding
	Export   key.Binding
	CycleOpt key.Binding
	Logout   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap is the built-in binding set. Vim-style list movement
// alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextNav: key.NewBinding(
		key.WithKeys("]", "tab"),
		key.WithHelp("]", "next view"),
	),
	PrevNav: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev view"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "refresh"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Deny: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "deny"),
	),
	Return: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "returned"),
	),
	Delete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Export: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "export"),
	),
	CycleOpt: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle filter"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "logout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}
