package ui

import "github.com/charmbracelet/bubbles/key"

// Key bindings
var keys = struct {
	Quit         key.Binding
	Filter       key.Binding
	Escape       key.Binding
	Enter        key.Binding
	Refresh      key.Binding
	Reservations key.Binding
	Sort         key.Binding
	Copy         key.Binding
	Theme        key.Binding
	Gradient     key.Binding
	Debug        key.Binding
	Focus        key.Binding
	Up           key.Binding
	Down         key.Binding
}{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter chat")),
	Escape:       key.NewBinding(key.WithKeys("esc")),
	Enter:        key.NewBinding(key.WithKeys("enter")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Reservations: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "reservations")),
	Sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Copy:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
	Theme:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Gradient:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gradient")),
	Debug:        key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "debug")),
	Focus:        key.NewBinding(key.WithKeys("tab")),
	Up:           key.NewBinding(key.WithKeys("k", "up", "pgup")),
	Down:         key.NewBinding(key.WithKeys("j", "down", "pgdown")),
}

// helpKeys are shown in the status bar, in order.
var helpKeys = []key.Binding{
	keys.Filter, keys.Reservations, keys.Sort, keys.Copy,
	keys.Theme, keys.Gradient, keys.Refresh, keys.Debug, keys.Quit,
}
