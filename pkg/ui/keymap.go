package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Execute    key.Binding
	Clear      key.Binding
	ShowTables key.Binding
	ListDBs    key.Binding
	Sync       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Execute: key.NewBinding(
		key.WithKeys("ctrl+enter", "ctrl+r"),
		key.WithHelp("ctrl+r", "run input"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear editor"),
	),
	ShowTables: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", `tables (\dt)`),
	),
	ListDBs: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", `databases (\l)`),
	),
	Sync: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", `sync all (\sync)`),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+h"),
		key.WithHelp("ctrl+h", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+q"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
