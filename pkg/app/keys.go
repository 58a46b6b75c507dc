package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bar's keybindings. The bar is driven by the mouse; the
// keyboard only quits.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
