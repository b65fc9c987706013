package ui

import (
	"strings"

	"github.com/atomicstack/controlbox/internal/host"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings of the control box.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Select     key.Binding
	Open       key.Binding
	Toggle     key.Binding
	SwitchTab  key.Binding
	AddContact key.Binding
	Offline    key.Binding
	Logout     key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the bindings for opts. Adding contacts and logging
// out are disabled unless the options allow them.
func DefaultKeyMap(opts host.Options) KeyMap {
	km := KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "chat"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "contacts"),
		),
		AddContact: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "add contact"),
		),
		Offline: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "offline"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
	if opts.XHRUserSearch {
		km.AddContact.SetHelp("ctrl+n", "search users")
	}
	km.AddContact.SetEnabled(opts.AllowContactRequests)
	km.Logout.SetEnabled(opts.AllowLogout)
	if opts.StickyControlBox {
		km.Back.SetHelp("esc", "clear")
	}
	return km
}

// helpLine renders the enabled bindings as "key desc" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
