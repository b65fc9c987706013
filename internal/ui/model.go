package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/controlbox/internal/backend"
	"github.com/atomicstack/controlbox/internal/contacts"
	"github.com/atomicstack/controlbox/internal/controlbox"
	"github.com/atomicstack/controlbox/internal/data/dispatcher"
	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/logging/events"
	"github.com/atomicstack/controlbox/internal/login"
	"github.com/atomicstack/controlbox/internal/state"
	"github.com/atomicstack/controlbox/internal/theme"
	"github.com/atomicstack/controlbox/internal/toggle"
	"github.com/atomicstack/controlbox/internal/ui/command"
	uistate "github.com/atomicstack/controlbox/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeToggle Mode = iota
	ModeLogin
	ModeContacts
	ModeContactForm
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeContacts:
		return "contacts"
	case ModeContactForm:
		return "contact-form"
	default:
		return "toggle"
	}
}

const rosterListID = "roster"

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Config carries the collaborators the model drives. Nil fields fall back to
// standalone defaults so the model can run without a host bridge.
type Config struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool

	Context    *host.AppContext
	Hub        *host.Hub
	Controller *controlbox.Controller
	Login      *login.Handler
	Contacts   *contacts.Handler
	Toggle     *toggle.Widget
	Roster     state.RosterStore
	Chats      state.ChatStore
	Dispatcher *dispatcher.Dispatcher
	Watcher    *backend.Watcher

	// Logout asks the host to end the session.
	Logout func() error
}

// Model implements the Bubble Tea model for the control box.
type Model struct {
	ctx      *host.AppContext
	hub      *host.Hub
	ctrl     *controlbox.Controller
	toggle   *toggle.Widget
	roster   state.RosterStore
	chats    state.ChatStore
	logout   func() error
	loginH   *login.Handler
	contactH *contacts.Handler

	loginForm   *login.Form
	contactForm *contacts.Form
	list        *uistate.List

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	quitting    bool

	backend        *backend.Watcher
	backendState   map[backend.Kind]error
	backendLastErr string
	bridgeUp       bool

	filterCursor      cursor.Model
	filterCursorDirty bool
	cursorMode        cursor.Mode

	unread    int
	unreadSeq uint64
	pending   []tea.Cmd
	lastPane  controlbox.Pane

	handlers   map[reflect.Type]msgHandler
	keys       KeyMap
	bus        *command.Bus
	mode       Mode
	dispatcher *dispatcher.Dispatcher
}

// NewModel wires the control box collaborators into a Bubble Tea model.
func NewModel(cfg Config) *Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = &host.AppContext{}
	}
	hub := cfg.Hub
	if hub == nil {
		hub = host.NewHub()
	}
	if ctx.Emitter == nil {
		ctx.Emitter = hub
	}
	ctrl := cfg.Controller
	if ctrl == nil {
		ctrl = controlbox.New(ctx)
	}
	roster := cfg.Roster
	if roster == nil {
		roster = state.NewRosterStore()
	}
	chats := cfg.Chats
	if chats == nil {
		chats = state.NewChatStore()
	}
	loginH := cfg.Login
	if loginH == nil {
		loginH = login.NewHandler(ctx)
	}
	contactH := cfg.Contacts
	if contactH == nil {
		contactH = contacts.NewHandler(ctx, nil)
	}
	widget := cfg.Toggle
	if widget == nil {
		widget = toggle.New(ctrl, ctx.Transport)
	}
	d := cfg.Dispatcher
	if d == nil {
		d = dispatcher.New(roster, chats, nil, nil, hub)
	}
	m := &Model{
		ctx:          ctx,
		hub:          hub,
		ctrl:         ctrl,
		toggle:       widget,
		roster:       roster,
		chats:        chats,
		logout:       cfg.Logout,
		loginH:       loginH,
		contactH:     contactH,
		loginForm:    login.NewForm(loginH),
		list:         uistate.NewList(rosterListID, nil),
		showFooter:   cfg.ShowFooter,
		verbose:      cfg.Verbose,
		backend:      cfg.Watcher,
		backendState: map[backend.Kind]error{},
		cursorMode:   cursor.CursorBlink,
		keys:         DefaultKeyMap(ctx.Options),
		bus:          command.New(),
		dispatcher:   d,
	}
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	hub.Listen(m.onHostEvent)
	m.refreshRoster()
	m.registerHandlers()
	m.syncMode()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

// handleActiveForm routes input to the login or contact form. Global keys
// and messages with a registered handler bypass the form.
func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.isGlobalKey(keyMsg) {
			return false, nil
		}
	} else if m.handlerFor(msg) != nil {
		return false, nil
	}
	switch m.mode {
	case ModeLogin:
		return m.handleLoginForm(msg)
	case ModeContactForm:
		return m.handleContactForm(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):          m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):     m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):      m.handleBackendDoneMsg,
		reflect.TypeOf(toggle.CountMsg{}):     m.handleCountMsg,
		reflect.TypeOf(unreadMsg{}):           m.handleUnreadMsg,
		reflect.TypeOf(contacts.ResultsMsg{}): m.handleSearchResultsMsg,
		reflect.TypeOf(ActionResult{}):        m.handleActionResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.syncMode()
	if len(m.pending) > 0 {
		cmds = append(cmds, m.pending...)
		m.pending = nil
	}
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// onHostEvent reacts to events emitted by the controller. It runs inside
// Update, so queued commands are returned by finishUpdate.
func (m *Model) onHostEvent(event host.Event, _ interface{}) {
	switch event {
	case host.EventControlBoxOpened:
		m.pending = append(m.pending, m.toggle.UpdateOnlineCount(m.roster.OnlineCount()))
	case host.EventControlboxInitialized:
		m.refreshRoster()
	}
}

// syncMode derives the input mode from the controller and resets per-pane
// state when the rendered pane changes.
func (m *Model) syncMode() {
	pane := m.ctrl.Pane()
	if pane != m.lastPane {
		switch pane {
		case controlbox.PaneLogin:
			m.loginForm.Reset()
			m.contactForm = nil
			events.UI.Focus(pane.String(), "jid")
		case controlbox.PaneContacts:
			m.refreshRoster()
			events.UI.Focus(pane.String(), "filter")
		}
		m.lastPane = pane
	}
	if !m.ctrl.TabsVisible() {
		m.unread = 0
	}
	if m.contactForm != nil && !m.contactH.Expanded() {
		m.contactForm = nil
	}
	switch {
	case !m.ctrl.Visible():
		m.mode = ModeToggle
	case pane == controlbox.PaneContacts && m.contactForm != nil:
		m.mode = ModeContactForm
	case pane == controlbox.PaneContacts:
		m.mode = ModeContacts
	case pane == controlbox.PaneLogin:
		m.mode = ModeLogin
	default:
		m.mode = ModeToggle
	}
}

// setCursorMode switches every text cursor the model owns to mode.
func (m *Model) setCursorMode(mode cursor.Mode) {
	m.cursorMode = mode
	m.filterCursor.SetMode(mode)
	m.loginForm.SetCursorMode(mode)
	if m.contactForm != nil {
		m.contactForm.SetCursorMode(mode)
	}
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode { return m.mode }

// Controller exposes the session panel controller.
func (m *Model) Controller() *controlbox.Controller { return m.ctrl }

// Quitting reports whether the user asked to exit.
func (m *Model) Quitting() bool { return m.quitting }
