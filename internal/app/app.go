package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/controlbox/internal/backend"
	"github.com/atomicstack/controlbox/internal/contacts"
	"github.com/atomicstack/controlbox/internal/controlbox"
	"github.com/atomicstack/controlbox/internal/data/dispatcher"
	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/logging/events"
	"github.com/atomicstack/controlbox/internal/login"
	"github.com/atomicstack/controlbox/internal/state"
	"github.com/atomicstack/controlbox/internal/store"
	"github.com/atomicstack/controlbox/internal/toggle"
	"github.com/atomicstack/controlbox/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const reconnectInterval = 1500 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	URL        string
	Token      string
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	StorePath  string
	Options    host.Options
}

// Session bundles the collaborators behind one control box.
type Session struct {
	Context    *host.AppContext
	Hub        *host.Hub
	Controller *controlbox.Controller
	Transport  *backend.Transport
	Roster     *backend.Roster
	Model      *ui.Model
}

// NewSession wires the control box against sender. The record held by rec
// is loaded into the controller before the model is built.
func NewSession(cfg Config, sender backend.Sender, rec host.Store, watcher *backend.Watcher) (*Session, error) {
	transport := backend.NewTransport(sender)
	rosterSvc := backend.NewRoster(sender)
	hub := host.NewHub()
	ctx := &host.AppContext{
		Options:   cfg.Options.WithDefaults(),
		Transport: transport,
		Roster:    rosterSvc,
		Store:     rec,
		Router:    host.NewFragmentRouter(""),
		Emitter:   hub,
	}

	ctrl := controlbox.New(ctx)
	if loader, ok := rec.(store.Loader); ok {
		saved, err := loader.Load()
		if err != nil {
			return nil, fmt.Errorf("load control box record: %w", err)
		}
		ctrl.Restore(saved)
	}
	hub.RegisterSession(ctrl)
	hub.RegisterChatList(ctrl)

	var searcher contacts.Searcher
	if ctx.Options.XHRUserSearch {
		searcher = contacts.NewHTTPSearcher(ctx.Options.XHRUserSearchURL)
	}

	roster := state.NewRosterStore()
	chats := state.NewChatStore()
	model := ui.NewModel(ui.Config{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Context:    ctx,
		Hub:        hub,
		Controller: ctrl,
		Login:      login.NewHandler(ctx),
		Contacts:   contacts.NewHandler(ctx, searcher),
		Toggle:     toggle.New(ctrl, transport),
		Roster:     roster,
		Chats:      chats,
		Dispatcher: dispatcher.New(roster, chats, transport, rosterSvc, hub),
		Watcher:    watcher,
		Logout:     transport.Logout,
	})
	return &Session{
		Context:    ctx,
		Hub:        hub,
		Controller: ctrl,
		Transport:  transport,
		Roster:     rosterSvc,
		Model:      model,
	}, nil
}

// openStore returns the file store at path, or a memory store when path is
// empty.
func openStore(path string) host.Store {
	if path == "" {
		return store.NewMemory()
	}
	return store.NewFile(path)
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	defer func() { events.App.Stop(err) }()

	watcher := backend.NewWatcher(cfg.URL, cfg.Token, reconnectInterval)
	defer watcher.Stop()

	session, err := NewSession(cfg, watcher, openStore(cfg.StorePath), watcher)
	if err != nil {
		return err
	}
	program := tea.NewProgram(session.Model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
