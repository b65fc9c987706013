package dispatcher

import (
	"github.com/atomicstack/controlbox/internal/backend"
	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/state"
	"github.com/atomicstack/controlbox/internal/status"
)

// Lifecycle names beyond the host events that the bridge may send.
const (
	LifecycleChatBoxesFetched = "chatBoxesFetched"
	LifecycleClearSession     = "clearSession"
	LifecycleTearDown         = "tearDown"
	LifecycleLogout           = "logout"
)

var consumed = map[string]host.Event{
	string(host.EventConnectionInitialized): host.EventConnectionInitialized,
	string(host.EventChatBoxesInitialized):  host.EventChatBoxesInitialized,
	string(host.EventRosterViewInitialized): host.EventRosterViewInitialized,
	string(host.EventDisconnected):          host.EventDisconnected,
	string(host.EventReconnected):           host.EventReconnected,
}

type Result struct {
	BridgeChanged    bool
	BridgeUp         bool
	Lifecycle        string
	StatusReported   bool
	RosterUpdated    bool
	ChatsUpdated     bool
	TransportUpdated bool
}

type Dispatcher struct {
	roster    state.RosterStore
	chats     state.ChatStore
	transport *backend.Transport
	rosterSvc *backend.Roster
	hub       *host.Hub
	listed    []string
}

func New(r state.RosterStore, c state.ChatStore, t *backend.Transport, rs *backend.Roster, hub *host.Hub) *Dispatcher {
	return &Dispatcher{roster: r, chats: c, transport: t, rosterSvc: rs, hub: hub}
}

// Handle applies evt to the stores and adapters and fans lifecycle events out
// through the hub. It must run on the UI goroutine.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Kind == backend.KindConnection {
		up, _ := evt.Data.(bool)
		res.BridgeChanged = true
		res.BridgeUp = up && evt.Err == nil
		return res
	}
	if evt.Err != nil {
		return res
	}
	switch evt.Kind {
	case backend.KindLifecycle:
		if p, ok := evt.Data.(backend.LifecyclePayload); ok {
			res.Lifecycle = p.Name
			d.lifecycle(p.Name)
		}
	case backend.KindStatus:
		if p, ok := evt.Data.(backend.StatusPayload); ok {
			code := status.Code(p.Code)
			if code.Valid() && d.transport != nil {
				d.transport.Notify(code, p.Message)
				res.StatusReported = true
			}
		}
	case backend.KindRoster:
		if contacts, ok := evt.Data.([]backend.Contact); ok {
			d.roster.SetEntries(contacts)
			if d.rosterSvc != nil {
				d.rosterSvc.SetOnline(d.roster.OnlineCount())
			}
			res.RosterUpdated = true
		}
	case backend.KindChats:
		if boxes, ok := evt.Data.([]backend.ChatBox); ok {
			d.chats.SetEntries(d.shown(boxes))
			res.ChatsUpdated = true
		}
	case backend.KindTransport:
		if flags, ok := evt.Data.(backend.TransportPayload); ok {
			if d.transport != nil {
				d.transport.SetFlags(flags)
			}
			res.TransportUpdated = true
		}
	}
	return res
}

func (d *Dispatcher) lifecycle(name string) {
	if d.hub == nil {
		return
	}
	if event, ok := consumed[name]; ok {
		d.hub.Dispatch(event)
		if event == host.EventDisconnected && d.hub.DisconnectionCause() == host.CauseLogout {
			d.hub.CloseAll(append([]string{host.ControlBoxID}, d.chats.IDs()...))
		}
		return
	}
	switch name {
	case LifecycleChatBoxesFetched:
		d.hub.ChatBoxesFetched(d.listed)
	case LifecycleClearSession:
		d.hub.ClearSession()
	case LifecycleTearDown:
		d.hub.TearDown()
	case LifecycleLogout:
		d.hub.SetDisconnectionCause(host.CauseLogout)
	}
}

// shown records the ids the host listed and keeps the boxes the hub allows
// in the chat list.
func (d *Dispatcher) shown(boxes []backend.ChatBox) []backend.ChatBox {
	d.listed = make([]string, 0, len(boxes))
	kept := make([]backend.ChatBox, 0, len(boxes))
	for _, box := range boxes {
		d.listed = append(d.listed, box.ID)
		if d.hub == nil || d.hub.MayBeShown(box.ID) {
			kept = append(kept, box)
		}
	}
	return kept
}
