package controlbox

import "github.com/atomicstack/controlbox/internal/host"

// Tab identifies a panel inside the control box.
type Tab string

// TabContacts is the only registered tab.
const TabContacts Tab = "contacts"

// Panel is the visibility state machine value.
type Panel int

const (
	LoggedOut Panel = iota
	LoggedInOpen
	LoggedInClosed
)

func (p Panel) String() string {
	switch p {
	case LoggedInOpen:
		return "logged-in-open"
	case LoggedInClosed:
		return "logged-in-closed"
	default:
		return "logged-out"
	}
}

// Pane is the body currently rendered inside the control box.
type Pane int

const (
	PaneNone Pane = iota
	PaneLogin
	PaneContacts
)

func (p Pane) String() string {
	switch p {
	case PaneLogin:
		return "login"
	case PaneContacts:
		return "contacts"
	default:
		return "none"
	}
}

// SessionState is the persisted part of the control box. Closed stays nil
// until the first render decides it.
type SessionState struct {
	Connected   bool
	Closed      *bool
	ActivePanel Tab
}

// IsClosed reports whether Closed is set and true.
func (s SessionState) IsClosed() bool {
	return s.Closed != nil && *s.Closed
}

// Record converts the state into a full store patch.
func (s SessionState) Record() host.Record {
	rec := host.Record{host.KeyConnected: s.Connected}
	if s.Closed != nil {
		rec[host.KeyClosed] = *s.Closed
	}
	if s.ActivePanel != "" {
		rec[host.KeyActivePanel] = string(s.ActivePanel)
	}
	return rec
}

func boolPtr(v bool) *bool {
	return &v
}
