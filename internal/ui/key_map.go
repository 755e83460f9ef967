package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	new     key.Binding
	delete  key.Binding
	refresh key.Binding
	profile key.Binding
	logout  key.Binding
	yes     key.Binding
	no      key.Binding
	tab     key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/save")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		new:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new todo")),
		delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log out")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.new, k.delete, k.refresh, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.new, k.delete, k.refresh},
		{k.profile, k.logout, k.quit},
	}
}
