package ui

import (
	"errors"

	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/logging"
	"github.com/atomicstack/controlbox/internal/logging/events"
	"github.com/atomicstack/controlbox/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// ActionResult reports the outcome of a command run through the bus.
type ActionResult struct {
	ID   string
	Info string
	Err  error
}

var errLogoutUnavailable = errors.New("logout is not available")

func (m *Model) logoutCmd() tea.Cmd {
	logout := m.logout
	if logout != nil {
		m.hub.SetDisconnectionCause(host.CauseLogout)
	}
	return m.bus.Execute(command.Request{
		ID:    "logout",
		Label: "Log out",
		Run: func() tea.Msg {
			if logout == nil {
				return ActionResult{ID: "logout", Err: errLogoutUnavailable}
			}
			if err := logout(); err != nil {
				return ActionResult{ID: "logout", Err: err}
			}
			return ActionResult{ID: "logout", Info: "Logging out"}
		},
	})
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(ActionResult)
	if !ok {
		return nil
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		logging.Error(result.Err)
		events.Action.Error(result.Err)
		return nil
	}
	m.errMsg = ""
	if result.Info != "" {
		m.setInfo(result.Info)
	}
	events.Action.Success(result.Info)
	return nil
}
