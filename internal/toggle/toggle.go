// Package toggle implements the compact line shown while the control box is
// closed. It carries the online contact count and opens or closes the box.
package toggle

import (
	"time"

	"github.com/atomicstack/controlbox/internal/controlbox"
	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// DebounceInterval bounds how often the online count is redrawn.
const DebounceInterval = 100 * time.Millisecond

const (
	labelConnected    = "Contacts"
	labelDisconnected = "Toggle chat"
)

// CountMsg carries a pending online count back into Update.
type CountMsg struct {
	Seq   uint64
	Count int
}

// Widget is the toggle shown beside the closed control box.
type Widget struct {
	ctrl      *controlbox.Controller
	transport host.Transport
	delay     time.Duration

	seq     uint64
	count   int
	redraws int
}

// New returns a widget driving ctrl.
func New(ctrl *controlbox.Controller, transport host.Transport) *Widget {
	return &Widget{ctrl: ctrl, transport: transport, delay: DebounceInterval}
}

// Label returns the text shown on the toggle.
func (w *Widget) Label() string {
	if w.transport != nil && w.transport.Connected() {
		return labelConnected
	}
	return labelDisconnected
}

// Count returns the online count last applied.
func (w *Widget) Count() int { return w.count }

// UpdateOnlineCount schedules a redraw with count. Bursts coalesce: only the
// tick carrying the latest sequence is applied.
func (w *Widget) UpdateOnlineCount(count int) tea.Cmd {
	w.seq++
	seq := w.seq
	events.Toggle.Count(seq, count)
	return tea.Tick(w.delay, func(time.Time) tea.Msg {
		return CountMsg{Seq: seq, Count: count}
	})
}

// Apply consumes a CountMsg and reports whether it caused a redraw.
func (w *Widget) Apply(msg CountMsg) bool {
	if msg.Seq != w.seq {
		return false
	}
	if w.redraws > 0 && msg.Count == w.count {
		return false
	}
	w.count = msg.Count
	w.redraws++
	events.Toggle.Redraw(msg.Count)
	return true
}

// Click closes the control box when it is on screen and opens it otherwise.
// Visibility is read from the controller at the time of the click since the
// box can be shown or hidden without going through the toggle.
func (w *Widget) Click() {
	visible := w.ctrl.Visible()
	events.Toggle.Click(visible)
	if visible {
		w.ctrl.Close()
		return
	}
	w.ctrl.Open()
}
