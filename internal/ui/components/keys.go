package components

import "charm.land/bubbles/v2/key"

// KeyMap holds the bindings shared by the quiz components.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Submit   key.Binding
	Continue key.Binding
	Retry    key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "answer"),
		),
		Continue: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("enter", "next question"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
