package dispatcher

import (
	"testing"

	"github.com/atomicstack/controlbox/internal/backend"
	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/state"
	"github.com/atomicstack/controlbox/internal/status"
)

type nopSender struct{}

func (nopSender) Send(string, interface{}) error { return nil }

type sessionCounter struct {
	ready, disconnected, cleared int
	fetched                      []string
	closed                       []string
	hidden                       string
}

func (s *sessionCounter) SessionReady()                 { s.ready++ }
func (s *sessionCounter) RosterViewReady()              {}
func (s *sessionCounter) Disconnected()                 { s.disconnected++ }
func (s *sessionCounter) Reconnected()                  {}
func (s *sessionCounter) ClearSession()                 { s.cleared++ }
func (s *sessionCounter) TearDown()                     {}
func (s *sessionCounter) ChatBoxMayBeShown(id string) bool { return id != s.hidden }
func (s *sessionCounter) ChatBoxesFetched(ids []string)    { s.fetched = ids }
func (s *sessionCounter) CloseChatBox(id string)           { s.closed = append(s.closed, id) }

func (s *sessionCounter) ShouldClose(id string, cause host.DisconnectionCause) bool {
	return id != host.ControlBoxID || cause == host.CauseLogout
}

func newDispatcher() (*Dispatcher, *backend.Transport, *backend.Roster, *host.Hub, *sessionCounter) {
	tr := backend.NewTransport(nopSender{})
	rs := backend.NewRoster(nopSender{})
	hub := host.NewHub()
	spy := &sessionCounter{}
	hub.RegisterSession(spy)
	hub.RegisterChatList(spy)
	d := New(state.NewRosterStore(), state.NewChatStore(), tr, rs, hub)
	return d, tr, rs, hub, spy
}

func TestHandleLifecycleReachesHub(t *testing.T) {
	d, _, _, hub, spy := newDispatcher()
	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "connectionInitialized"}})
	res := d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "chatBoxesInitialized"}})
	if res.Lifecycle != "chatBoxesInitialized" || spy.ready != 1 {
		t.Fatalf("expected session ready, res=%+v spy=%+v", res, spy)
	}
	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "disconnected"}})
	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "clearSession"}})
	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "logout"}})
	if spy.disconnected != 1 || spy.cleared != 1 || hub.DisconnectionCause() != host.CauseLogout {
		t.Fatalf("unexpected fan-out %+v cause=%v", spy, hub.DisconnectionCause())
	}

	d.Handle(backend.Event{Kind: backend.KindChats, Data: []backend.ChatBox{{ID: "controlbox"}}})
	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "chatBoxesFetched"}})
	if len(spy.fetched) != 1 || spy.fetched[0] != "controlbox" {
		t.Fatalf("expected fetched ids, got %v", spy.fetched)
	}
}

func TestHandleUpdatesAdapters(t *testing.T) {
	d, tr, rs, _, _ := newDispatcher()

	res := d.Handle(backend.Event{Kind: backend.KindTransport, Data: backend.TransportPayload{Connected: true, Authenticated: true}})
	if !res.TransportUpdated || !tr.Connected() || !tr.Authenticated() {
		t.Fatalf("transport flags not applied: %+v", res)
	}

	res = d.Handle(backend.Event{Kind: backend.KindRoster, Data: []backend.Contact{
		{JID: "a@x", Presence: "online"},
		{JID: "b@x", Presence: "offline"},
	}})
	if !res.RosterUpdated || rs.OnlineCount() != 1 {
		t.Fatalf("expected online count 1, got %d", rs.OnlineCount())
	}

	var got status.Code = -1
	tr.Connect("a@x", "pw", func(code status.Code, _ string) { got = code })
	res = d.Handle(backend.Event{Kind: backend.KindStatus, Data: backend.StatusPayload{Code: int(status.Connecting)}})
	if !res.StatusReported || got != status.Connecting {
		t.Fatalf("status not forwarded, got %v", got)
	}
	res = d.Handle(backend.Event{Kind: backend.KindStatus, Data: backend.StatusPayload{Code: 42}})
	if res.StatusReported {
		t.Fatalf("unknown status codes must be ignored")
	}
}

func TestHandleConnectionEvents(t *testing.T) {
	d, _, _, _, _ := newDispatcher()
	res := d.Handle(backend.Event{Kind: backend.KindConnection, Data: true})
	if !res.BridgeChanged || !res.BridgeUp {
		t.Fatalf("expected bridge up, got %+v", res)
	}
	res = d.Handle(backend.Event{Kind: backend.KindConnection, Data: false})
	if !res.BridgeChanged || res.BridgeUp {
		t.Fatalf("expected bridge down, got %+v", res)
	}
}

func TestDisconnectAfterLogoutClosesAll(t *testing.T) {
	d, _, _, hub, spy := newDispatcher()
	d.Handle(backend.Event{Kind: backend.KindChats, Data: []backend.ChatBox{{ID: "bob@x", Type: "chatbox"}}})

	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "disconnected"}})
	if len(spy.closed) != 0 {
		t.Fatalf("a plain disconnect must not close anything, got %v", spy.closed)
	}

	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "logout"}})
	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "disconnected"}})
	if len(spy.closed) != 2 || spy.closed[0] != host.ControlBoxID || spy.closed[1] != "bob@x" {
		t.Fatalf("expected control box and chat closed, got %v", spy.closed)
	}
	if hub.DisconnectionCause() != host.CauseUnknown {
		t.Fatalf("expected cause reset, got %v", hub.DisconnectionCause())
	}
}

func TestChatListDropsBoxesTheHubHides(t *testing.T) {
	d, _, _, _, spy := newDispatcher()
	spy.hidden = host.ControlBoxID
	d.Handle(backend.Event{Kind: backend.KindChats, Data: []backend.ChatBox{
		{ID: host.ControlBoxID, Type: "controlbox", Unread: 4},
		{ID: "bob@x", Type: "chatbox", Unread: 1},
	}})
	if ids := d.chats.IDs(); len(ids) != 1 || ids[0] != "bob@x" {
		t.Fatalf("expected control box kept out of the chat store, got %v", ids)
	}
	d.Handle(backend.Event{Kind: backend.KindLifecycle, Data: backend.LifecyclePayload{Name: "chatBoxesFetched"}})
	if len(spy.fetched) != 2 || spy.fetched[0] != host.ControlBoxID {
		t.Fatalf("observers should see every listed id, got %v", spy.fetched)
	}
}
