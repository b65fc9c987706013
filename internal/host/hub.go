package host

import "github.com/atomicstack/controlbox/internal/logging/events"

// SessionObserver reacts to the host's session lifecycle.
type SessionObserver interface {
	// SessionReady fires once both the connection and the chat list exist.
	SessionReady()
	RosterViewReady()
	Disconnected()
	Reconnected()
	ClearSession()
	TearDown()
}

// ChatListObserver takes part in decisions over the host's chat list.
type ChatListObserver interface {
	ChatBoxMayBeShown(id string) bool
	ChatBoxesFetched(ids []string)
	ShouldClose(id string, cause DisconnectionCause) bool
	CloseChatBox(id string)
}

// Listener receives emitted events.
type Listener func(event Event, payload interface{})

// Hub fans host lifecycle events out to registered observers and implements
// Emitter for events flowing the other way.
type Hub struct {
	sessions  []SessionObserver
	chats     []ChatListObserver
	listeners []Listener

	seen  map[Event]bool
	ready bool
	cause DisconnectionCause
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{seen: make(map[Event]bool)}
}

func (h *Hub) RegisterSession(o SessionObserver) {
	h.sessions = append(h.sessions, o)
}

func (h *Hub) RegisterChatList(o ChatListObserver) {
	h.chats = append(h.chats, o)
}

// Listen adds a listener for emitted events.
func (h *Hub) Listen(l Listener) {
	h.listeners = append(h.listeners, l)
}

// Emit implements Emitter.
func (h *Hub) Emit(event Event, payload interface{}) {
	events.Hub.Emit(string(event))
	for _, l := range h.listeners {
		l(event, payload)
	}
}

// Dispatch delivers a consumed lifecycle event.
func (h *Hub) Dispatch(event Event) {
	events.Hub.Dispatch(string(event))
	switch event {
	case EventConnectionInitialized, EventChatBoxesInitialized:
		h.seen[event] = true
		if !h.ready && h.seen[EventConnectionInitialized] && h.seen[EventChatBoxesInitialized] {
			h.ready = true
			for _, o := range h.sessions {
				o.SessionReady()
			}
		}
	case EventRosterViewInitialized:
		for _, o := range h.sessions {
			o.RosterViewReady()
		}
	case EventDisconnected:
		for _, o := range h.sessions {
			o.Disconnected()
		}
	case EventReconnected:
		for _, o := range h.sessions {
			o.Reconnected()
		}
	}
}

// Ready reports whether SessionReady has fired.
func (h *Hub) Ready() bool {
	return h.ready
}

// SetDisconnectionCause records why the next close-all happens.
func (h *Hub) SetDisconnectionCause(cause DisconnectionCause) {
	h.cause = cause
}

func (h *Hub) DisconnectionCause() DisconnectionCause {
	return h.cause
}

// ClearSession notifies observers that the session record is being cleared.
func (h *Hub) ClearSession() {
	for _, o := range h.sessions {
		o.ClearSession()
	}
}

// TearDown notifies observers that the session is being destroyed and
// resets readiness so a new session waits for initialisation again.
func (h *Hub) TearDown() {
	for _, o := range h.sessions {
		o.TearDown()
	}
	h.seen = make(map[Event]bool)
	h.ready = false
}

// ChatBoxesFetched reports the restored chat list.
func (h *Hub) ChatBoxesFetched(ids []string) {
	for _, o := range h.chats {
		o.ChatBoxesFetched(ids)
	}
}

// MayBeShown reports whether every observer allows id in the chat list.
func (h *Hub) MayBeShown(id string) bool {
	for _, o := range h.chats {
		if !o.ChatBoxMayBeShown(id) {
			return false
		}
	}
	return true
}

// CloseAll closes every id the observers let go for the recorded
// disconnection cause, then forgets the cause. It returns the closed ids.
func (h *Hub) CloseAll(ids []string) []string {
	closed := h.Closable(ids)
	events.Hub.CloseAll(closed)
	for _, id := range closed {
		for _, o := range h.chats {
			o.CloseChatBox(id)
		}
	}
	h.cause = CauseUnknown
	return closed
}

// Closable filters ids down to those every observer lets close-all remove.
func (h *Hub) Closable(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		keep := true
		for _, o := range h.chats {
			if !o.ShouldClose(id, h.cause) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, id)
		}
	}
	return out
}
