package backend

import (
	"sync"

	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/logging"
	"github.com/atomicstack/controlbox/internal/status"
)

// Sender writes frames to the host bridge.
type Sender interface {
	Send(kind string, payload interface{}) error
}

// Transport implements host.Transport over the bridge. The flags are the
// last ones the host reported.
type Transport struct {
	sender Sender

	mu       sync.Mutex
	flags    TransportPayload
	onStatus host.StatusFunc
}

// NewTransport returns a transport writing to sender.
func NewTransport(sender Sender) *Transport {
	return &Transport{sender: sender}
}

// Connect asks the host to connect. A failed write is reported as a
// connection failure through onStatus.
func (t *Transport) Connect(jid, password string, onStatus host.StatusFunc) {
	t.mu.Lock()
	t.onStatus = onStatus
	t.mu.Unlock()
	if err := t.sender.Send(TypeConnect, connectPayload{JID: jid, Password: password}); err != nil {
		logging.Error(err)
		t.Notify(status.ConnFail, err.Error())
	}
}

// Reset asks the host to drop any half-open connection.
func (t *Transport) Reset() {
	if err := t.sender.Send(TypeReset, nil); err != nil {
		logging.Error(err)
	}
}

// Logout asks the host to end the session.
func (t *Transport) Logout() error {
	return t.sender.Send(TypeLogout, nil)
}

func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flags.Connected
}

func (t *Transport) Authenticated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flags.Authenticated
}

func (t *Transport) Disconnecting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flags.Disconnecting
}

// SetFlags records the flags reported by the host.
func (t *Transport) SetFlags(flags TransportPayload) {
	t.mu.Lock()
	t.flags = flags
	t.mu.Unlock()
}

// Notify forwards a status to the callback of the last Connect.
func (t *Transport) Notify(code status.Code, message string) {
	t.mu.Lock()
	cb := t.onStatus
	t.mu.Unlock()
	if cb != nil {
		cb(code, message)
	}
}

// Roster implements host.Roster over the bridge.
type Roster struct {
	sender Sender

	mu     sync.Mutex
	online int
}

// NewRoster returns a roster writing to sender.
func NewRoster(sender Sender) *Roster {
	return &Roster{sender: sender}
}

// AddAndSubscribe asks the host to add jid to the roster and subscribe.
func (r *Roster) AddAndSubscribe(jid, name string) error {
	return r.sender.Send(TypeSubscribe, subscribePayload{JID: jid, Name: name})
}

// OnlineCount returns the last computed number of online contacts.
func (r *Roster) OnlineCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.online
}

// SetOnline records the online count.
func (r *Roster) SetOnline(n int) {
	r.mu.Lock()
	r.online = n
	r.mu.Unlock()
}

var (
	_ host.Transport = (*Transport)(nil)
	_ host.Roster    = (*Roster)(nil)
	_ Sender         = (*Watcher)(nil)
)
