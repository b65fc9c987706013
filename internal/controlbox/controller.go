// Package controlbox owns the control box session state and decides which
// of the login pane, the contacts pane and the toggle is visible.
package controlbox

import (
	"fmt"
	"sort"

	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/logging"
	"github.com/atomicstack/controlbox/internal/logging/events"
)

// Controller is the single source of truth for what the user is looking at.
// All methods must be called from the UI goroutine.
type Controller struct {
	ctx   *host.AppContext
	state SessionState

	added          bool
	visible        bool
	toggleVisible  bool
	pane           Pane
	tabsVisible    bool
	rosterInserted bool
}

// New creates a controller bound to the given application context.
func New(ctx *host.AppContext) *Controller {
	if ctx == nil {
		ctx = &host.AppContext{}
	}
	return &Controller{ctx: ctx}
}

var (
	_ host.SessionObserver  = (*Controller)(nil)
	_ host.ChatListObserver = (*Controller)(nil)
)

// State returns a copy of the session state.
func (c *Controller) State() SessionState {
	s := c.state
	if s.Closed != nil {
		s.Closed = boolPtr(*s.Closed)
	}
	return s
}

// Added reports whether the control box has been created.
func (c *Controller) Added() bool { return c.added }

// Visible reports whether the control box itself is on screen.
func (c *Controller) Visible() bool { return c.visible }

// ToggleVisible reports whether the collapsed toggle is on screen.
func (c *Controller) ToggleVisible() bool { return c.toggleVisible }

// Pane returns the rendered body.
func (c *Controller) Pane() Pane { return c.pane }

// TabsVisible reports whether the tab strip (with its unread counter) is shown.
func (c *Controller) TabsVisible() bool { return c.tabsVisible }

// RosterInserted reports whether the roster view sits inside the contacts pane.
func (c *Controller) RosterInserted() bool { return c.rosterInserted }

// Sticky reports whether the panel can never be hidden once logged in.
func (c *Controller) Sticky() bool { return c.ctx.Options.StickyControlBox }

// Panel derives the state machine value.
func (c *Controller) Panel() Panel {
	if !c.state.Connected {
		return LoggedOut
	}
	if c.visible {
		return LoggedInOpen
	}
	return LoggedInClosed
}

// Restore hydrates the closed flag and active panel from a stored record.
// The connected flag is never restored; the transport re-establishes it.
func (c *Controller) Restore(rec host.Record) {
	if rec == nil {
		return
	}
	if closed, ok := rec[host.KeyClosed].(bool); ok {
		if c.Sticky() {
			closed = false
		}
		c.state.Closed = boolPtr(closed)
	}
	if panel, ok := rec[host.KeyActivePanel].(string); ok && panel != "" {
		c.state.ActivePanel = Tab(panel)
	}
	events.ControlBox.Restore(rec)
}

func (c *Controller) defaultClosed() bool {
	if c.Sticky() {
		return false
	}
	return !c.ctx.Options.ShowControlBoxByDefault
}

// AddControlBox creates the control box once the host connection and chat
// list are initialised.
func (c *Controller) AddControlBox() {
	if c.state.Closed == nil {
		c.state.Closed = boolPtr(c.defaultClosed())
	}
	c.added = true
	events.ControlBox.Added(c.state.IsClosed())
	c.Render()
	if c.state.Connected {
		c.rosterInserted = true
	}
	c.ctx.Emit(host.EventControlboxInitialized, c)
}

// Render re-evaluates visibility and which pane to show.
func (c *Controller) Render() {
	if c.state.Connected && c.state.Closed == nil {
		c.state.Closed = boolPtr(c.defaultClosed())
	}
	if !c.state.IsClosed() {
		c.Show()
	} else {
		c.Hide()
	}
	if !c.authenticated() {
		c.renderLoginPane()
	} else if c.state.Connected && c.pane != PaneContacts {
		c.renderContactsPane()
	}
	events.ControlBox.Render(c.pane.String(), c.visible)
}

func (c *Controller) authenticated() bool {
	t := c.ctx.Transport
	return t != nil && t.Connected() && t.Authenticated() && !t.Disconnecting()
}

// online reports whether closing should be persisted.
func (c *Controller) online() bool {
	t := c.ctx.Transport
	return t != nil && t.Connected() && !t.Disconnecting()
}

func (c *Controller) renderLoginPane() {
	c.pane = PaneLogin
}

func (c *Controller) renderContactsPane() {
	c.pane = PaneContacts
	if c.state.ActivePanel == "" {
		c.state.ActivePanel = TabContacts
		c.save(host.Record{host.KeyActivePanel: string(TabContacts)})
	}
	c.tabsVisible = true
}

// OnConnectionChanged reacts to the host's connected flag. Connecting
// prefers the contacts pane; disconnecting forces the login pane and drops
// the tab strip.
func (c *Controller) OnConnectionChanged(connected bool) {
	events.ControlBox.Connection(connected)
	if connected {
		c.state.Connected = true
		c.Render()
		c.rosterInserted = true
		c.save(c.state.Record())
		return
	}
	c.state.Connected = false
	c.tabsVisible = false
	c.rosterInserted = false
	c.renderLoginPane()
}

// Open shows the control box. The open state is persisted only while the
// transport is connected.
func (c *Controller) Open() {
	if !c.added {
		c.AddControlBox()
	}
	persisted := c.online()
	events.ControlBox.Open(persisted)
	if persisted {
		c.state.Closed = boolPtr(false)
		c.save(host.Record{host.KeyClosed: false})
		c.ensureClosedState()
		return
	}
	c.Show()
}

// Close hides the control box. It is a no-op in sticky mode. Closing while
// connected persists the flag; otherwise the box is hidden transiently.
func (c *Controller) Close() {
	if c.Sticky() {
		events.ControlBox.Ignored("close")
		return
	}
	persisted := c.online()
	events.ControlBox.Close(persisted)
	if persisted {
		c.state.Closed = boolPtr(true)
		c.save(host.Record{host.KeyClosed: true})
		c.ensureClosedState()
	} else {
		c.Hide()
	}
	c.ctx.Emit(host.EventControlBoxClosed, c)
}

func (c *Controller) ensureClosedState() {
	if c.state.IsClosed() {
		c.Hide()
	} else {
		c.Show()
	}
}

// Show makes the control box visible and collapses the toggle.
func (c *Controller) Show() {
	c.toggleVisible = false
	c.state.Closed = boolPtr(false)
	if c.visible {
		return
	}
	c.visible = true
	events.ControlBox.Show()
	c.ctx.Emit(host.EventControlBoxOpened, c)
}

// Hide collapses the control box into the toggle. Ignored in sticky mode.
func (c *Controller) Hide() {
	if c.Sticky() {
		events.ControlBox.Ignored("hide")
		return
	}
	c.toggleVisible = true
	if !c.visible {
		return
	}
	c.visible = false
	events.ControlBox.Hide()
	c.ctx.Emit(host.EventChatBoxClosed, c)
}

// SwitchTab selects a tab. Persistence is skipped without a store.
func (c *Controller) SwitchTab(tab Tab) {
	c.state.ActivePanel = tab
	persisted := c.ctx.HasStore()
	events.ControlBox.SwitchTab(string(tab), persisted)
	if persisted {
		c.save(host.Record{host.KeyActivePanel: string(tab)})
	}
}

func (c *Controller) save(patch host.Record) {
	if !c.ctx.HasStore() {
		return
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := c.ctx.Store.Save(patch); err != nil {
		logging.Error(fmt.Errorf("persist control box record: %w", err))
		events.ControlBox.PersistError(keys, err)
		return
	}
	events.ControlBox.Persist(keys)
}

// SessionReady implements host.SessionObserver.
func (c *Controller) SessionReady() {
	c.AddControlBox()
}

// RosterViewReady implements host.SessionObserver.
func (c *Controller) RosterViewReady() {
	if c.state.Connected {
		c.rosterInserted = true
	}
}

// Disconnected implements host.SessionObserver.
func (c *Controller) Disconnected() {
	c.OnConnectionChanged(false)
}

// Reconnected implements host.SessionObserver.
func (c *Controller) Reconnected() {
	c.OnConnectionChanged(true)
}

// ClearSession implements host.SessionObserver.
func (c *Controller) ClearSession() {
	if !c.ctx.HasStore() {
		return
	}
	c.state.Connected = false
	c.save(host.Record{host.KeyConnected: false})
}

// TearDown implements host.SessionObserver.
func (c *Controller) TearDown() {
	c.rosterInserted = false
	c.tabsVisible = false
}

// ChatBoxMayBeShown implements host.ChatListObserver; the control box never
// appears as a regular chat.
func (c *Controller) ChatBoxMayBeShown(id string) bool {
	return id != host.ControlBoxID
}

// ChatBoxesFetched implements host.ChatListObserver.
func (c *Controller) ChatBoxesFetched(ids []string) {
	restored := false
	for _, id := range ids {
		if id == host.ControlBoxID {
			restored = true
			break
		}
	}
	if !restored || !c.added {
		c.AddControlBox()
	}
	c.OnConnectionChanged(true)
}

// CloseChatBox implements host.ChatListObserver.
func (c *Controller) CloseChatBox(id string) {
	if id == host.ControlBoxID {
		c.Close()
	}
}

// ShouldClose implements host.ChatListObserver. The control box survives a
// close-all unless the user logged out and it is not shown by default.
func (c *Controller) ShouldClose(id string, cause host.DisconnectionCause) bool {
	if id != host.ControlBoxID {
		return true
	}
	return cause == host.CauseLogout && !c.ctx.Options.ShowControlBoxByDefault
}
