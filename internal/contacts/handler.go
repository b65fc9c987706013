// Package contacts implements the add-contact and user-search forms of the
// contacts pane.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/jid"
	"github.com/atomicstack/controlbox/internal/logging"
	"github.com/atomicstack/controlbox/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	InvalidAddressMessage = "Please enter a valid XMPP address"
	NoUsersFound          = "No users found"
	AddressPlaceholder    = "e.g. user@example.org"
	NamePlaceholder       = "Contact name"
)

const searchTimeout = 10 * time.Second

var (
	// ErrSearchDisabled is reported when a search is issued without a
	// configured search endpoint.
	ErrSearchDisabled = errors.New("contacts: user search disabled")
	// ErrNoRoster is returned when no roster service is attached.
	ErrNoRoster = errors.New("contacts: no roster")
)

// Draft is the add-contact form state for one submission.
type Draft struct {
	JID          string
	ErrorMessage string
}

// Result is one user returned by the search endpoint.
type Result struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
}

// Recipient is the bare address to subscribe to.
func (r Result) Recipient() string {
	return jid.Node(r.ID) + "@" + jid.Domain(r.ID)
}

// Searcher looks users up by name.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// ResultsMsg delivers a finished search into Update.
type ResultsMsg struct {
	Seq     uint64
	Query   string
	Results []Result
	Err     error
}

// Handler owns the contact request state of the contacts pane.
type Handler struct {
	ctx      *host.AppContext
	searcher Searcher

	expanded bool
	draft    Draft

	seq       uint64
	searched  bool
	results   []Result
	searchErr error
}

// NewHandler returns a handler. searcher may be nil when user search is off.
func NewHandler(ctx *host.AppContext, searcher Searcher) *Handler {
	if ctx == nil {
		ctx = &host.AppContext{}
	}
	return &Handler{ctx: ctx, searcher: searcher}
}

// SearchEnabled reports whether the form searches instead of adding directly.
func (h *Handler) SearchEnabled() bool {
	return h.ctx.Options.XHRUserSearch
}

// Expanded reports whether the add-contact form is open.
func (h *Handler) Expanded() bool { return h.expanded }

// Draft returns the state of the last add-contact submission.
func (h *Handler) Draft() Draft { return h.draft }

// ToggleForm opens or collapses the add-contact form, resetting its state.
func (h *Handler) ToggleForm() {
	h.expanded = !h.expanded
	h.draft = Draft{}
	events.Contacts.FormToggle(h.expanded)
}

func (h *Handler) collapse() {
	if h.expanded {
		h.expanded = false
		events.Contacts.FormToggle(false)
	}
}

// AddContact subscribes to address. An address without both a local and a
// domain part is rejected with a field-level message and the form stays open.
func (h *Handler) AddContact(address, name string) Draft {
	h.draft = Draft{JID: address}
	if !jid.HasLocalAndDomain(address) {
		events.Contacts.Reject(address)
		h.draft.ErrorMessage = InvalidAddressMessage
		return h.draft
	}
	if err := h.subscribe(address, name); err != nil {
		h.draft.ErrorMessage = err.Error()
		return h.draft
	}
	h.collapse()
	return h.draft
}

func (h *Handler) subscribe(address, name string) error {
	roster := h.ctx.Roster
	if roster == nil {
		return ErrNoRoster
	}
	events.Contacts.Add(address, name)
	if err := roster.AddAndSubscribe(address, name); err != nil {
		err = fmt.Errorf("subscribe to %s: %w", address, err)
		logging.Error(err)
		return err
	}
	return nil
}

// Begin issues a new search sequence number. Results carrying an older
// number are dropped by Accept.
func (h *Handler) Begin(query string) uint64 {
	h.seq++
	events.Contacts.Search(h.seq, query)
	return h.seq
}

// Search starts an asynchronous lookup and returns the command delivering
// its ResultsMsg.
func (h *Handler) Search(query string) tea.Cmd {
	seq := h.Begin(query)
	searcher := h.searcher
	if !h.SearchEnabled() || searcher == nil {
		return func() tea.Msg {
			return ResultsMsg{Seq: seq, Query: query, Err: ErrSearchDisabled}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		results, err := searcher.Search(ctx, query)
		return ResultsMsg{Seq: seq, Query: query, Results: results, Err: err}
	}
}

// Accept applies a finished search and reports whether it was current.
func (h *Handler) Accept(msg ResultsMsg) bool {
	if msg.Seq != h.seq {
		events.Contacts.Stale(msg.Seq, h.seq)
		return false
	}
	h.searched = true
	h.searchErr = msg.Err
	if msg.Err != nil {
		logging.Error(fmt.Errorf("search %q: %w", msg.Query, msg.Err))
		h.results = nil
		return true
	}
	h.results = append([]Result(nil), msg.Results...)
	events.Contacts.Results(msg.Seq, len(h.results))
	return true
}

// Results returns the current search results.
func (h *Handler) Results() []Result {
	return append([]Result(nil), h.results...)
}

// SearchError returns the error of the current search, if any.
func (h *Handler) SearchError() error { return h.searchErr }

// Rows returns the lines the result list renders. A finished search with no
// results renders a single "No users found" row instead of an empty list.
func (h *Handler) Rows() []string {
	if !h.searched {
		return nil
	}
	if h.searchErr != nil {
		return []string{h.searchErr.Error()}
	}
	if len(h.results) == 0 {
		return []string{NoUsersFound}
	}
	rows := make([]string, len(h.results))
	for i, r := range h.results {
		rows[i] = r.Fullname
	}
	return rows
}

// AddFromResult subscribes to the i-th result with its full name, removes
// it from the list and collapses the form.
func (h *Handler) AddFromResult(i int) error {
	if i < 0 || i >= len(h.results) {
		return fmt.Errorf("contacts: no search result at %d", i)
	}
	result := h.results[i]
	if err := h.subscribe(result.Recipient(), result.Fullname); err != nil {
		return err
	}
	h.results = append(h.results[:i:i], h.results[i+1:]...)
	h.collapse()
	return nil
}
