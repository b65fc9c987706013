package theme

import (
	"github.com/atomicstack/controlbox/internal/status"
	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Box                   *lipgloss.Style
	Toggle                *lipgloss.Style
	ToggleCount           *lipgloss.Style
	Tab                   *lipgloss.Style
	TabActive             *lipgloss.Style
	Unread                *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Online                *lipgloss.Style
	Away                  *lipgloss.Style
	Busy                  *lipgloss.Style
	Offline               *lipgloss.Style
	Error                 *lipgloss.Style
	Warn                  *lipgloss.Style
	Info                  *lipgloss.Style
	Label                 *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
}

var defaultStyles = Styles{
	Box: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
	),
	Toggle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true).Padding(0, 1),
	),
	ToggleCount: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")),
	),
	Tab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	TabActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true),
	),
	Unread: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Online: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	Away: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Busy: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
	Offline: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Warn: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Severity picks the feedback style for a connection status.
func (s *Styles) Severity(sev status.Severity) *lipgloss.Style {
	switch sev {
	case status.SeverityError:
		return s.Error
	case status.SeverityWarn:
		return s.Warn
	default:
		return s.Info
	}
}

// Presence picks the style for a contact's presence show value.
func (s *Styles) Presence(show string) *lipgloss.Style {
	switch show {
	case "dnd", "busy":
		return s.Busy
	case "away", "xa":
		return s.Away
	case "", "offline", "unavailable":
		return s.Offline
	default:
		return s.Online
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
