// Package host defines the collaborators the control box consumes from the
// chat client that embeds it: the transport, the roster service, the session
// record store, the client-side router, and the lifecycle event hub.
package host

import "github.com/atomicstack/controlbox/internal/status"

// Event names a lifecycle notification consumed or emitted by the control box.
type Event string

const (
	EventConnectionInitialized Event = "connectionInitialized"
	EventChatBoxesInitialized  Event = "chatBoxesInitialized"
	EventRosterViewInitialized Event = "rosterViewInitialized"
	EventDisconnected          Event = "disconnected"
	EventReconnected           Event = "reconnected"

	EventControlBoxOpened      Event = "controlBoxOpened"
	EventControlBoxClosed      Event = "controlBoxClosed"
	EventChatBoxClosed         Event = "chatBoxClosed"
	EventControlboxInitialized Event = "controlboxInitialized"
)

// ControlBoxID is the chat list identifier reserved for the control box.
const ControlBoxID = "controlbox"

// Authentication selects how the login form connects.
type Authentication string

const (
	AuthLogin     Authentication = "login"
	AuthAnonymous Authentication = "anonymous"
)

// DisconnectionCause records why the host last disconnected.
type DisconnectionCause int

const (
	CauseUnknown DisconnectionCause = iota
	CauseLogout
	CauseNetwork
)

// Options is the configuration surface recognised by the control box.
type Options struct {
	AllowLogout             bool
	DefaultDomain           string
	LockedDomain            string
	ShowControlBoxByDefault bool
	StickyControlBox        bool
	XHRUserSearch           bool
	XHRUserSearchURL        string

	Authentication       Authentication
	AnonymousJID         string
	AllowContactRequests bool
}

// WithDefaults fills in the authentication mode when unset.
func (o Options) WithDefaults() Options {
	if o.Authentication == "" {
		o.Authentication = AuthLogin
	}
	return o
}

// StatusFunc receives status changes for a connection attempt.
type StatusFunc func(code status.Code, message string)

// Transport is the host's connection to the chat server.
type Transport interface {
	Connect(jid, password string, onStatus StatusFunc)
	Reset()
	Connected() bool
	Authenticated() bool
	Disconnecting() bool
}

// Roster is the host's contact list service.
type Roster interface {
	AddAndSubscribe(jid, name string) error
	OnlineCount() int
}

// Record keys persisted for the control box.
const (
	KeyConnected   = "connected"
	KeyClosed      = "closed"
	KeyActivePanel = "active-panel"
)

// Record is a patch applied to the session-scoped control box record.
type Record map[string]interface{}

// Store persists control box records. A nil Store disables persistence.
type Store interface {
	Save(patch Record) error
}

// Router exposes the client-side routing fragment.
type Router interface {
	Fragment() string
	Navigate(fragment string)
}

// Emitter publishes events emitted by the control box.
type Emitter interface {
	Emit(event Event, payload interface{})
}

// AppContext carries the collaborators shared by the control box components.
type AppContext struct {
	Options   Options
	Transport Transport
	Roster    Roster
	Store     Store
	Router    Router
	Emitter   Emitter
}

// Emit forwards to the configured emitter, if any.
func (c *AppContext) Emit(event Event, payload interface{}) {
	if c == nil || c.Emitter == nil {
		return
	}
	c.Emitter.Emit(event, payload)
}

// HasStore reports whether records are persisted.
func (c *AppContext) HasStore() bool {
	return c != nil && c.Store != nil
}

// FragmentRouter keeps the routing fragment in memory.
type FragmentRouter struct {
	fragment string
}

// NewFragmentRouter starts at the given fragment.
func NewFragmentRouter(fragment string) *FragmentRouter {
	return &FragmentRouter{fragment: fragment}
}

func (r *FragmentRouter) Fragment() string {
	return r.fragment
}

func (r *FragmentRouter) Navigate(fragment string) {
	r.fragment = fragment
}
