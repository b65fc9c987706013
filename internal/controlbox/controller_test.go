package controlbox

import (
	"errors"
	"testing"

	"github.com/atomicstack/controlbox/internal/host"
)

type fakeTransport struct {
	connected     bool
	authenticated bool
	disconnecting bool
}

func (f *fakeTransport) Connect(string, string, host.StatusFunc) {}
func (f *fakeTransport) Reset()                                  {}
func (f *fakeTransport) Connected() bool                         { return f.connected }
func (f *fakeTransport) Authenticated() bool                     { return f.authenticated }
func (f *fakeTransport) Disconnecting() bool                     { return f.disconnecting }

type fakeStore struct {
	saves []host.Record
	err   error
}

func (s *fakeStore) Save(patch host.Record) error {
	s.saves = append(s.saves, patch)
	return s.err
}

type recorder struct {
	events []host.Event
}

func (r *recorder) Emit(event host.Event, _ interface{}) {
	r.events = append(r.events, event)
}

func (r *recorder) count(event host.Event) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func newTestController(opts host.Options, store host.Store) (*Controller, *fakeTransport, *recorder) {
	transport := &fakeTransport{}
	rec := &recorder{}
	ctx := &host.AppContext{Options: opts, Transport: transport, Emitter: rec}
	if store != nil {
		ctx.Store = store
	}
	return New(ctx), transport, rec
}

func login(c *Controller, t *fakeTransport) {
	t.connected = true
	t.authenticated = true
	c.OnConnectionChanged(true)
}

func TestInitialStateIsLoggedOut(t *testing.T) {
	c, _, _ := newTestController(host.Options{}, nil)
	if c.Panel() != LoggedOut {
		t.Fatalf("expected logged out, got %s", c.Panel())
	}
	if c.Added() {
		t.Fatalf("control box should not exist before the session is ready")
	}
}

func TestAddControlBoxHonoursShowByDefault(t *testing.T) {
	c, _, rec := newTestController(host.Options{ShowControlBoxByDefault: true}, nil)
	c.AddControlBox()
	if !c.Visible() || c.ToggleVisible() {
		t.Fatalf("expected box visible and toggle hidden")
	}
	if c.Pane() != PaneLogin {
		t.Fatalf("expected login pane while logged out, got %s", c.Pane())
	}
	if rec.count(host.EventControlboxInitialized) != 1 {
		t.Fatalf("expected controlboxInitialized once, got %v", rec.events)
	}

	hidden, _, _ := newTestController(host.Options{}, nil)
	hidden.AddControlBox()
	if hidden.Visible() || !hidden.ToggleVisible() {
		t.Fatalf("expected only the toggle when not shown by default")
	}
}

func TestConnectOpensContactsPane(t *testing.T) {
	store := &fakeStore{}
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, store)
	c.AddControlBox()
	login(c, tr)

	if c.Panel() != LoggedInOpen {
		t.Fatalf("expected logged-in-open, got %s", c.Panel())
	}
	if c.Pane() != PaneContacts {
		t.Fatalf("expected contacts pane, got %s", c.Pane())
	}
	if c.State().ActivePanel != TabContacts {
		t.Fatalf("expected contacts tab to be active, got %q", c.State().ActivePanel)
	}
	if !c.TabsVisible() || !c.RosterInserted() {
		t.Fatalf("expected tabs and roster after login")
	}
	last := store.saves[len(store.saves)-1]
	if last[host.KeyConnected] != true {
		t.Fatalf("expected connected persisted, got %#v", last)
	}
}

func TestConnectWithHiddenDefaultIsClosed(t *testing.T) {
	c, tr, _ := newTestController(host.Options{}, nil)
	login(c, tr)
	if c.Panel() != LoggedInClosed {
		t.Fatalf("expected logged-in-closed, got %s", c.Panel())
	}
	if !c.ToggleVisible() {
		t.Fatalf("expected toggle while closed")
	}
}

func TestConnectWhileTransportUnauthenticatedKeepsLogin(t *testing.T) {
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, nil)
	tr.connected = true
	c.OnConnectionChanged(true)
	if c.Pane() != PaneLogin {
		t.Fatalf("expected login pane until authenticated, got %s", c.Pane())
	}
}

func TestCloseAndOpenWhileConnectedPersist(t *testing.T) {
	store := &fakeStore{}
	c, tr, rec := newTestController(host.Options{ShowControlBoxByDefault: true}, store)
	c.AddControlBox()
	login(c, tr)
	store.saves = nil

	c.Close()
	if c.Panel() != LoggedInClosed {
		t.Fatalf("expected closed, got %s", c.Panel())
	}
	if len(store.saves) != 1 || store.saves[0][host.KeyClosed] != true {
		t.Fatalf("expected closed=true persisted, got %#v", store.saves)
	}
	if rec.count(host.EventControlBoxClosed) != 1 || rec.count(host.EventChatBoxClosed) != 1 {
		t.Fatalf("unexpected emitted events %v", rec.events)
	}

	c.Open()
	if c.Panel() != LoggedInOpen {
		t.Fatalf("expected open, got %s", c.Panel())
	}
	if len(store.saves) != 2 || store.saves[1][host.KeyClosed] != false {
		t.Fatalf("expected closed=false persisted, got %#v", store.saves)
	}
}

func TestCloseWhileDisconnectedIsTransient(t *testing.T) {
	store := &fakeStore{}
	c, _, rec := newTestController(host.Options{ShowControlBoxByDefault: true}, store)
	c.AddControlBox()
	store.saves = nil

	c.Close()
	if c.Visible() {
		t.Fatalf("expected hidden after close")
	}
	if len(store.saves) != 0 {
		t.Fatalf("expected no persistence while disconnected, got %#v", store.saves)
	}
	if c.State().IsClosed() {
		t.Fatalf("transient hide must not set the closed flag")
	}
	if rec.count(host.EventControlBoxClosed) != 1 {
		t.Fatalf("expected controlBoxClosed, got %v", rec.events)
	}

	c.Open()
	if !c.Visible() || len(store.saves) != 0 {
		t.Fatalf("expected transient show, saves=%#v", store.saves)
	}
}

func TestCloseWhileDisconnectingIsTransient(t *testing.T) {
	store := &fakeStore{}
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, store)
	c.AddControlBox()
	login(c, tr)
	tr.disconnecting = true
	store.saves = nil

	c.Close()
	if len(store.saves) != 0 {
		t.Fatalf("expected no persistence while disconnecting, got %#v", store.saves)
	}
	if c.Visible() {
		t.Fatalf("expected hidden")
	}
}

func TestStickyNeverLeavesOpen(t *testing.T) {
	for _, showByDefault := range []bool{true, false} {
		store := &fakeStore{}
		c, tr, _ := newTestController(host.Options{StickyControlBox: true, ShowControlBoxByDefault: showByDefault}, store)
		c.AddControlBox()
		login(c, tr)
		if c.Panel() != LoggedInOpen {
			t.Fatalf("show=%v: expected open after login, got %s", showByDefault, c.Panel())
		}
		c.Close()
		c.Hide()
		c.Close()
		c.Render()
		c.Restore(host.Record{host.KeyClosed: true})
		c.Render()
		if c.Panel() != LoggedInOpen {
			t.Fatalf("show=%v: sticky box left open state: %s", showByDefault, c.Panel())
		}
		for _, save := range store.saves {
			if save[host.KeyClosed] == true {
				t.Fatalf("show=%v: sticky box persisted closed=true", showByDefault)
			}
		}
	}
}

func TestSwitchTabIdempotent(t *testing.T) {
	store := &fakeStore{}
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, store)
	c.AddControlBox()
	login(c, tr)

	c.SwitchTab(TabContacts)
	first := c.State()
	firstPane := c.Pane()
	c.SwitchTab(TabContacts)
	second := c.State()
	if first.ActivePanel != second.ActivePanel || first.Connected != second.Connected || first.IsClosed() != second.IsClosed() {
		t.Fatalf("state changed between identical tab switches: %#v vs %#v", first, second)
	}
	if firstPane != c.Pane() {
		t.Fatalf("pane changed between identical tab switches")
	}
}

func TestSwitchTabWithoutStoreSkipsPersistence(t *testing.T) {
	c, _, _ := newTestController(host.Options{}, nil)
	c.SwitchTab(TabContacts)
	if c.State().ActivePanel != TabContacts {
		t.Fatalf("expected tab to switch without a store")
	}
}

func TestDisconnectForcesLoginAndClearsTabs(t *testing.T) {
	store := &fakeStore{}
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, store)
	c.AddControlBox()
	login(c, tr)
	c.Close()

	tr.connected = false
	tr.authenticated = false
	c.OnConnectionChanged(false)

	if c.Pane() != PaneLogin {
		t.Fatalf("expected login pane, got %s", c.Pane())
	}
	if c.TabsVisible() {
		t.Fatalf("expected tab strip cleared")
	}
	if c.Panel() != LoggedOut {
		t.Fatalf("expected logged out, got %s", c.Panel())
	}
}

func TestReconnectedReturnsToContacts(t *testing.T) {
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, nil)
	c.AddControlBox()
	login(c, tr)
	c.Disconnected()
	if c.Pane() != PaneLogin {
		t.Fatalf("expected login pane after disconnect")
	}
	c.Reconnected()
	if c.Pane() != PaneContacts || !c.TabsVisible() {
		t.Fatalf("expected contacts pane after reconnect, got %s", c.Pane())
	}
}

func TestStoreErrorsAreNotFatal(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, store)
	c.AddControlBox()
	login(c, tr)
	c.Close()
	if c.Panel() != LoggedInClosed {
		t.Fatalf("expected state change despite store error, got %s", c.Panel())
	}
}

func TestRestoreAppliesClosedAndPanel(t *testing.T) {
	c, tr, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, nil)
	c.Restore(host.Record{host.KeyClosed: true, host.KeyActivePanel: "contacts", host.KeyConnected: true})
	if c.State().Connected {
		t.Fatalf("connected must not be restored")
	}
	c.AddControlBox()
	if c.Visible() {
		t.Fatalf("expected restored closed flag to hide the box")
	}
	login(c, tr)
	if c.Panel() != LoggedInClosed {
		t.Fatalf("expected restored closed state after login, got %s", c.Panel())
	}
}

func TestClearSession(t *testing.T) {
	store := &fakeStore{}
	c, tr, _ := newTestController(host.Options{}, store)
	login(c, tr)
	store.saves = nil
	c.ClearSession()
	if len(store.saves) != 1 || store.saves[0][host.KeyConnected] != false {
		t.Fatalf("expected connected=false persisted, got %#v", store.saves)
	}

	noStore, tr2, _ := newTestController(host.Options{}, nil)
	login(noStore, tr2)
	noStore.ClearSession()
	if !noStore.State().Connected {
		t.Fatalf("clear session without a store should leave state alone")
	}
}

func TestChatListObserver(t *testing.T) {
	c, tr, _ := newTestController(host.Options{}, nil)
	if c.ChatBoxMayBeShown(host.ControlBoxID) {
		t.Fatalf("control box must not be shown as a chat")
	}
	if !c.ChatBoxMayBeShown("bob@example.org") {
		t.Fatalf("regular chats may be shown")
	}
	if c.ShouldClose(host.ControlBoxID, host.CauseNetwork) {
		t.Fatalf("control box survives network disconnects")
	}
	if !c.ShouldClose(host.ControlBoxID, host.CauseLogout) {
		t.Fatalf("control box closes on logout when hidden by default")
	}
	if !c.ShouldClose("bob@example.org", host.CauseNetwork) {
		t.Fatalf("regular chats always close")
	}

	tr.connected = true
	tr.authenticated = true
	c.ChatBoxesFetched([]string{"bob@example.org"})
	if !c.Added() || !c.State().Connected {
		t.Fatalf("expected control box added and connected after fetch")
	}

	c.Open()
	c.CloseChatBox("bob@example.org")
	if !c.Visible() {
		t.Fatalf("closing another chat must leave the control box open")
	}
	c.CloseChatBox(host.ControlBoxID)
	if c.Visible() || !c.ToggleVisible() {
		t.Fatalf("expected the control box collapsed into the toggle")
	}

	shown, _, _ := newTestController(host.Options{ShowControlBoxByDefault: true}, nil)
	if shown.ShouldClose(host.ControlBoxID, host.CauseLogout) {
		t.Fatalf("control box shown by default survives logout")
	}
}

func TestHubDrivesController(t *testing.T) {
	hub := host.NewHub()
	tr := &fakeTransport{}
	c := New(&host.AppContext{Options: host.Options{ShowControlBoxByDefault: true}, Transport: tr, Emitter: hub})
	hub.RegisterSession(c)
	hub.RegisterChatList(c)

	var opened int
	hub.Listen(func(event host.Event, _ interface{}) {
		if event == host.EventControlBoxOpened {
			opened++
		}
	})

	hub.Dispatch(host.EventConnectionInitialized)
	if c.Added() {
		t.Fatalf("control box must wait for the chat list")
	}
	hub.Dispatch(host.EventChatBoxesInitialized)
	if !c.Added() || opened != 1 {
		t.Fatalf("expected control box added and opened once, opened=%d", opened)
	}

	tr.connected, tr.authenticated = true, true
	hub.Dispatch(host.EventReconnected)
	if c.Pane() != PaneContacts {
		t.Fatalf("expected contacts pane, got %s", c.Pane())
	}
	hub.Dispatch(host.EventDisconnected)
	if c.Pane() != PaneLogin {
		t.Fatalf("expected login pane, got %s", c.Pane())
	}
	if hub.MayBeShown(host.ControlBoxID) {
		t.Fatalf("hub should consult the controller")
	}
	hub.SetDisconnectionCause(host.CauseNetwork)
	if got := hub.Closable([]string{host.ControlBoxID, "bob@example.org"}); len(got) != 1 || got[0] != "bob@example.org" {
		t.Fatalf("unexpected closable set %v", got)
	}
}
