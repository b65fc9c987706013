package contacts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atomicstack/controlbox/internal/host"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subscription struct {
	jid  string
	name string
}

type fakeRoster struct {
	subs []subscription
	err  error
}

func (r *fakeRoster) AddAndSubscribe(jid, name string) error {
	if r.err != nil {
		return r.err
	}
	r.subs = append(r.subs, subscription{jid, name})
	return nil
}

func (r *fakeRoster) OnlineCount() int { return 0 }

type staticSearcher struct {
	results []Result
	err     error
}

func (s staticSearcher) Search(context.Context, string) ([]Result, error) {
	return s.results, s.err
}

func newHandler(opts host.Options, searcher Searcher) (*Handler, *fakeRoster) {
	roster := &fakeRoster{}
	return NewHandler(&host.AppContext{Options: opts, Roster: roster}, searcher), roster
}

func TestAddContactRejectsAddressesWithoutDomain(t *testing.T) {
	h, roster := newHandler(host.Options{}, nil)
	h.ToggleForm()
	for _, address := range []string{"", "alice", "alice@", "@example.org", "@@"} {
		draft := h.AddContact(address, "")
		assert.Equal(t, InvalidAddressMessage, draft.ErrorMessage, address)
		assert.Equal(t, address, draft.JID)
	}
	assert.Empty(t, roster.subs)
	assert.True(t, h.Expanded())
}

func TestAddContactSubscribesAndCollapses(t *testing.T) {
	h, roster := newHandler(host.Options{}, nil)
	h.ToggleForm()
	draft := h.AddContact("bob@example.org", "Bob")
	assert.Empty(t, draft.ErrorMessage)
	assert.Equal(t, []subscription{{"bob@example.org", "Bob"}}, roster.subs)
	assert.False(t, h.Expanded())
}

func TestAddContactSurfacesRosterError(t *testing.T) {
	h, roster := newHandler(host.Options{}, nil)
	roster.err = errors.New("offline")
	h.ToggleForm()
	draft := h.AddContact("bob@example.org", "")
	assert.Contains(t, draft.ErrorMessage, "offline")
	assert.True(t, h.Expanded())

	noRoster := NewHandler(nil, nil)
	assert.Equal(t, ErrNoRoster.Error(), noRoster.AddContact("bob@example.org", "").ErrorMessage)
}

func TestSearchDropsStaleResponses(t *testing.T) {
	h, _ := newHandler(host.Options{XHRUserSearch: true}, nil)
	slow := h.Begin("al")
	fast := h.Begin("alice")

	assert.True(t, h.Accept(ResultsMsg{Seq: fast, Results: []Result{{ID: "alice@example.org", Fullname: "Alice"}}}))
	assert.False(t, h.Accept(ResultsMsg{Seq: slow, Results: []Result{{ID: "al@example.org", Fullname: "Al"}}}))
	assert.Equal(t, []string{"Alice"}, h.Rows())
}

func TestSearchEmptyResultRendersRow(t *testing.T) {
	h, _ := newHandler(host.Options{XHRUserSearch: true}, staticSearcher{})
	assert.Nil(t, h.Rows())
	msg := h.Search("nobody")().(ResultsMsg)
	require.True(t, h.Accept(msg))
	assert.Equal(t, []string{NoUsersFound}, h.Rows())
}

func TestSearchDisabled(t *testing.T) {
	h, _ := newHandler(host.Options{}, staticSearcher{})
	msg := h.Search("x")().(ResultsMsg)
	assert.ErrorIs(t, msg.Err, ErrSearchDisabled)
	h.Accept(msg)
	assert.ErrorIs(t, h.SearchError(), ErrSearchDisabled)
}

func TestAddFromResultUsesBareRecipient(t *testing.T) {
	results := []Result{
		{ID: "alice@example.org/web", Fullname: "Alice Liddell"},
		{ID: "bob@example.org", Fullname: "Bob"},
	}
	h, roster := newHandler(host.Options{XHRUserSearch: true}, staticSearcher{results: results})
	h.ToggleForm()
	require.True(t, h.Accept(h.Search("a")().(ResultsMsg)))

	require.NoError(t, h.AddFromResult(0))
	assert.Equal(t, []subscription{{"alice@example.org", "Alice Liddell"}}, roster.subs)
	assert.Equal(t, []string{"Bob"}, h.Rows())
	assert.False(t, h.Expanded())
	assert.Error(t, h.AddFromResult(5))
}

func TestHTTPSearcher(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"carol@example.org","fullname":"Carol"}]`))
	}))
	defer srv.Close()

	results, err := NewHTTPSearcher(srv.URL+"/search").Search(context.Background(), "car ol")
	require.NoError(t, err)
	assert.Equal(t, "car ol", gotQuery)
	assert.Equal(t, []Result{{ID: "carol@example.org", Fullname: "Carol"}}, results)
}

func TestHTTPSearcherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSearcher(srv.URL).Search(context.Background(), "x")
	assert.ErrorContains(t, err, "500")

	_, err = NewHTTPSearcher("").Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSearchDisabled)

	s := NewHTTPSearcher("http://example.org/users?format=json")
	assert.Equal(t, "http://example.org/users?format=json&q=a+b", s.requestURL("a b"))
}

func typeInto(f *Form, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestFormAddFlow(t *testing.T) {
	h, roster := newHandler(host.Options{}, nil)
	h.ToggleForm()
	f := NewForm(h)
	typeInto(f, "dave")
	_, done, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, done)
	assert.Equal(t, InvalidAddressMessage, f.Error())

	typeInto(f, "@example.org")
	_, done, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, done)
	assert.Empty(t, f.Error())
	assert.Equal(t, []subscription{{"dave@example.org", ""}}, roster.subs)

	_, _, cancel := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, cancel)
}

func TestFormSearchFlow(t *testing.T) {
	results := []Result{{ID: "erin@example.org", Fullname: "Erin"}}
	h, roster := newHandler(host.Options{XHRUserSearch: true}, staticSearcher{results: results})
	h.ToggleForm()
	f := NewForm(h)
	typeInto(f, "erin")
	cmd, done, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, done)
	require.True(t, h.Accept(cmd().(ResultsMsg)))
	f.ResultsChanged()

	f.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, f.Selected())
	_, done, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, done)
	assert.Equal(t, []subscription{{"erin@example.org", "Erin"}}, roster.subs)
}
