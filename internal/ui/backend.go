package ui

import (
	"time"

	"github.com/atomicstack/controlbox/internal/backend"
	"github.com/atomicstack/controlbox/internal/controlbox"
	"github.com/atomicstack/controlbox/internal/toggle"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

// unreadMsg triggers a debounced redraw of the unread counter.
type unreadMsg struct {
	seq uint64
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	m.bridgeUp = false
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if m.backendState == nil {
		m.backendState = make(map[backend.Kind]error)
	}
	m.backendState[evt.Kind] = evt.Err
	if evt.Err != nil {
		m.backendLastErr = evt.Err.Error()
	}

	res := m.dispatcher.Handle(evt)
	var cmds []tea.Cmd
	if res.BridgeChanged {
		m.bridgeUp = res.BridgeUp
		if res.BridgeUp {
			m.backendLastErr = ""
		}
	}
	if res.RosterUpdated {
		m.refreshRoster()
		cmds = append(cmds, m.toggle.UpdateOnlineCount(m.roster.OnlineCount()))
	}
	if res.ChatsUpdated {
		cmds = append(cmds, m.scheduleUnread())
	}
	if res.TransportUpdated {
		m.syncAuthentication()
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// syncAuthentication re-renders the box when the transport's authenticated
// state no longer matches the pane on screen.
func (m *Model) syncAuthentication() {
	if !m.ctrl.Added() {
		return
	}
	t := m.ctx.Transport
	authenticated := t != nil && t.Connected() && t.Authenticated() && !t.Disconnecting()
	if authenticated != (m.ctrl.Pane() == controlbox.PaneContacts) {
		m.ctrl.Render()
	}
}

func (m *Model) scheduleUnread() tea.Cmd {
	m.unreadSeq++
	seq := m.unreadSeq
	return tea.Tick(toggle.DebounceInterval, func(time.Time) tea.Msg {
		return unreadMsg{seq: seq}
	})
}

func (m *Model) handleUnreadMsg(msg tea.Msg) tea.Cmd {
	u, ok := msg.(unreadMsg)
	if !ok || u.seq != m.unreadSeq {
		return nil
	}
	if m.ctrl.TabsVisible() {
		m.unread = m.chats.TotalUnread()
	}
	return nil
}

func (m *Model) handleCountMsg(msg tea.Msg) tea.Cmd {
	count, ok := msg.(toggle.CountMsg)
	if !ok {
		return nil
	}
	m.toggle.Apply(count)
	return nil
}
