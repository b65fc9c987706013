package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/atomicstack/controlbox/internal/logging/events"
	"github.com/gorilla/websocket"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindConnection Kind = iota
	KindLifecycle
	KindStatus
	KindRoster
	KindChats
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindLifecycle:
		return TypeLifecycle
	case KindStatus:
		return TypeStatus
	case KindRoster:
		return TypeRoster
	case KindChats:
		return TypeChats
	case KindTransport:
		return TypeTransport
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event conveys a decoded bridge frame or a change of the bridge connection.
// For KindConnection, Data is true once connected and false when dropped.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// ErrNotConnected is returned by Send while the bridge is down.
var ErrNotConnected = errors.New("backend: bridge not connected")

var errUnknownType = errors.New("unknown frame type")

const (
	writeTimeout     = 10 * time.Second
	pongTimeout      = 60 * time.Second
	pingInterval     = 30 * time.Second
	defaultReconnect = time.Second
)

// Watcher keeps a websocket connection to the host bridge, redialling with a
// throttle when it drops, and publishes decoded frames as events.
type Watcher struct {
	url   string
	token string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn

	throttle *throttle
	events   chan Event
	wg       sync.WaitGroup
}

// NewWatcher dials url and keeps the connection alive until Stop. Redials
// are spaced at least reconnect apart.
func NewWatcher(url, token string, reconnect time.Duration) *Watcher {
	if reconnect <= 0 {
		reconnect = defaultReconnect
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		url:      url,
		token:    token,
		ctx:      ctx,
		cancel:   cancel,
		throttle: newThrottle(reconnect),
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.run()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher and closes the live connection.
func (w *Watcher) Stop() {
	w.cancel()
	w.mu.Lock()
	if w.conn != nil {
		w.conn.Close()
	}
	w.mu.Unlock()
}

// Wait blocks until the watcher goroutines have exited and the events
// channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// Connected reports whether the bridge connection is up.
func (w *Watcher) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

// Send writes one frame to the bridge.
func (w *Watcher) Send(kind string, payload interface{}) error {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	env := Envelope{Type: kind}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", kind, err)
		}
		env.Payload = raw
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(env); err != nil {
		return fmt.Errorf("send %s: %w", kind, err)
	}
	events.Bridge.Send(kind)
	return nil
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func (w *Watcher) run() {
	defer w.wg.Done()
	attempt := 0
	for {
		if !w.throttle.wait(w.ctx) {
			return
		}
		attempt++
		events.Bridge.Dial(w.url, attempt)
		conn, err := w.dial()
		if err != nil {
			events.Bridge.DialError(w.url, err)
			if !w.emit(Event{Kind: KindConnection, Data: false, Err: err}) {
				return
			}
			continue
		}
		attempt = 0
		if !w.emit(Event{Kind: KindConnection, Data: true}) {
			conn.Close()
			return
		}
		err = w.read(conn)
		if w.ctx.Err() != nil {
			return
		}
		if !w.emit(Event{Kind: KindConnection, Data: false, Err: err}) {
			return
		}
	}
}

func (w *Watcher) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: writeTimeout,
	}
	conn, _, err := dialer.DialContext(w.ctx, w.url, nil)
	if err != nil {
		return nil, err
	}
	if w.token != "" {
		auth := Envelope{Type: TypeAuth}
		auth.Payload, _ = json.Marshal(authPayload{Token: w.token})
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(auth); err != nil {
			conn.Close()
			return nil, err
		}
	}
	w.mu.Lock()
	if err := w.ctx.Err(); err != nil {
		w.mu.Unlock()
		conn.Close()
		return nil, err
	}
	w.conn = conn
	w.mu.Unlock()

	go w.ping(conn)
	return conn, nil
}

func (w *Watcher) read(conn *websocket.Conn) error {
	defer func() {
		w.mu.Lock()
		if w.conn == conn {
			w.conn = nil
		}
		w.mu.Unlock()
		conn.Close()
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				events.Bridge.Decode("", err)
				continue
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		events.Bridge.Receive(env.Type)
		kind, data, err := decode(env)
		if err != nil {
			events.Bridge.Decode(env.Type, err)
			continue
		}
		if !w.emit(Event{Kind: kind, Data: data}) {
			return w.ctx.Err()
		}
	}
}

func (w *Watcher) ping(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			current := w.conn
			w.mu.Unlock()
			if current != conn {
				return
			}
			w.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			w.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
