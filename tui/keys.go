// ABOUTME: Key bindings for the editor TUI, rendered in the footer by the bubbles help model.
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Cancel key.Binding
	Log    key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Log:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle log")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Cancel, k.Log}, {k.Help, k.Quit}}
}
