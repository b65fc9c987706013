package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/controlbox/internal/backend"
	"github.com/atomicstack/controlbox/internal/controlbox"
	"github.com/atomicstack/controlbox/internal/data/dispatcher"
	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/login"
	"github.com/atomicstack/controlbox/internal/state"
	"github.com/atomicstack/controlbox/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

type frameRecorder struct {
	frames []string
	err    error
}

func (r *frameRecorder) Send(kind string, _ interface{}) error {
	r.frames = append(r.frames, kind)
	return r.err
}

func (r *frameRecorder) sent(kind string) int {
	n := 0
	for _, f := range r.frames {
		if f == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	t         *testing.T
	harness   *Harness
	sender    *frameRecorder
	transport *backend.Transport
	store     *store.Memory
	hub       *host.Hub
	ctrl      *controlbox.Controller
}

func newFixture(t *testing.T, opts host.Options) *fixture {
	t.Helper()
	sender := &frameRecorder{}
	transport := backend.NewTransport(sender)
	rosterSvc := backend.NewRoster(sender)
	hub := host.NewHub()
	mem := store.NewMemory()
	ctx := &host.AppContext{
		Options:   opts.WithDefaults(),
		Transport: transport,
		Roster:    rosterSvc,
		Store:     mem,
		Router:    host.NewFragmentRouter(""),
		Emitter:   hub,
	}
	ctrl := controlbox.New(ctx)
	hub.RegisterSession(ctrl)
	hub.RegisterChatList(ctrl)
	roster := state.NewRosterStore()
	chats := state.NewChatStore()
	loginH := login.NewHandler(ctx)
	loginH.SetResourceGenerator(func() string { return "/controlbox-test" })
	model := NewModel(Config{
		Width:      60,
		Height:     24,
		Context:    ctx,
		Hub:        hub,
		Controller: ctrl,
		Login:      loginH,
		Roster:     roster,
		Chats:      chats,
		Dispatcher: dispatcher.New(roster, chats, transport, rosterSvc, hub),
		Logout:     transport.Logout,
	})
	return &fixture{
		t:         t,
		harness:   NewHarness(model),
		sender:    sender,
		transport: transport,
		store:     mem,
		hub:       hub,
		ctrl:      ctrl,
	}
}

func (f *fixture) event(kind backend.Kind, data interface{}) {
	f.harness.Send(backendEventMsg{event: backend.Event{Kind: kind, Data: data}})
}

func (f *fixture) lifecycle(name string) {
	f.event(backend.KindLifecycle, backend.LifecyclePayload{Name: name})
}

// start delivers the two initialisation events that add the control box.
func (f *fixture) start() {
	f.lifecycle(string(host.EventConnectionInitialized))
	f.lifecycle(string(host.EventChatBoxesInitialized))
}

// connect reports an authenticated transport and a restored chat list.
func (f *fixture) connect() {
	f.event(backend.KindTransport, backend.TransportPayload{Connected: true, Authenticated: true})
	f.lifecycle(dispatcher.LifecycleChatBoxesFetched)
}

func (f *fixture) roster(contacts ...backend.Contact) {
	f.event(backend.KindRoster, contacts)
}

func (f *fixture) key(k tea.KeyType) {
	f.harness.Send(tea.KeyMsg{Type: k})
}

func (f *fixture) typeText(text string) {
	for _, r := range text {
		f.harness.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (f *fixture) model() *Model {
	return f.harness.Model()
}

func (f *fixture) expectView(substr string) {
	f.t.Helper()
	if view := f.harness.View(); !strings.Contains(view, substr) {
		f.t.Fatalf("expected view to contain %q, got:\n%s", substr, view)
	}
}

func (f *fixture) rejectView(substr string) {
	f.t.Helper()
	if view := f.harness.View(); strings.Contains(view, substr) {
		f.t.Fatalf("expected view to omit %q, got:\n%s", substr, view)
	}
}

func (f *fixture) expectMode(mode Mode) {
	f.t.Helper()
	if got := f.model().Mode(); got != mode {
		f.t.Fatalf("expected mode %s, got %s", mode, got)
	}
}

var sampleRoster = []backend.Contact{
	{JID: "alice@example.org", Name: "Alice", Presence: "online"},
	{JID: "bob@example.org", Name: "Bob", Presence: "away"},
	{JID: "carol@example.org", Presence: "offline"},
}
