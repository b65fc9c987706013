package backend

import "encoding/json"

// Envelope is one bridge frame in either direction.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound frame types.
const (
	TypeLifecycle = "lifecycle"
	TypeStatus    = "status"
	TypeRoster    = "roster"
	TypeChats     = "chats"
	TypeTransport = "transport"
)

// Outbound frame types.
const (
	TypeAuth      = "auth"
	TypeConnect   = "connect"
	TypeReset     = "reset"
	TypeSubscribe = "subscribe"
	TypeLogout    = "logout"
)

type LifecyclePayload struct {
	Name string `json:"name"`
}

type StatusPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Contact is a roster entry reported by the host.
type Contact struct {
	JID      string   `json:"jid"`
	Name     string   `json:"name"`
	Presence string   `json:"presence"`
	Groups   []string `json:"groups,omitempty"`
}

// Online reports whether the contact counts towards the online total.
func (c Contact) Online() bool {
	switch c.Presence {
	case "", "offline", "unavailable":
		return false
	}
	return true
}

// DisplayName is the name when set, else the address.
func (c Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.JID
}

type RosterPayload struct {
	Contacts []Contact `json:"contacts"`
}

// ChatBox is an entry of the host's chat list.
type ChatBox struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Unread int    `json:"unread"`
}

type ChatsPayload struct {
	Boxes []ChatBox `json:"boxes"`
}

// TransportPayload carries the transport flags the control box queries.
type TransportPayload struct {
	Connected     bool `json:"connected"`
	Authenticated bool `json:"authenticated"`
	Disconnecting bool `json:"disconnecting"`
}

type connectPayload struct {
	JID      string `json:"jid"`
	Password string `json:"password"`
}

type subscribePayload struct {
	JID  string `json:"jid"`
	Name string `json:"name,omitempty"`
}

type authPayload struct {
	Token string `json:"token"`
}

func decode(env Envelope) (Kind, interface{}, error) {
	var (
		kind Kind
		data interface{}
		err  error
	)
	switch env.Type {
	case TypeLifecycle:
		var p LifecyclePayload
		err = json.Unmarshal(env.Payload, &p)
		kind, data = KindLifecycle, p
	case TypeStatus:
		var p StatusPayload
		err = json.Unmarshal(env.Payload, &p)
		kind, data = KindStatus, p
	case TypeRoster:
		var p RosterPayload
		err = json.Unmarshal(env.Payload, &p)
		kind, data = KindRoster, p.Contacts
	case TypeChats:
		var p ChatsPayload
		err = json.Unmarshal(env.Payload, &p)
		kind, data = KindChats, p.Boxes
	case TypeTransport:
		var p TransportPayload
		err = json.Unmarshal(env.Payload, &p)
		kind, data = KindTransport, p
	default:
		return 0, nil, errUnknownType
	}
	return kind, data, err
}
