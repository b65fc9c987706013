package state

import (
	"sort"
	"strings"

	"github.com/atomicstack/controlbox/internal/backend"
)

// Presence groups used by the contacts pane summary.
const (
	PresenceOnline  = "online"
	PresenceBusy    = "dnd"
	PresenceAway    = "away"
	PresenceOffline = "offline"
)

type RosterStore interface {
	Entries() []backend.Contact
	SetEntries([]backend.Contact)
	OnlineCount() int
	Summary() PresenceSummary
	IncludeOffline() bool
	SetIncludeOffline(bool)
}

// PresenceSummary counts roster entries per presence group.
type PresenceSummary struct {
	Online  int
	Busy    int
	Away    int
	Offline int
}

type rosterStore struct {
	entries        []backend.Contact
	includeOffline bool
}

func NewRosterStore() RosterStore {
	return &rosterStore{includeOffline: true}
}

// Entries returns the roster sorted online first, then by display name.
// Offline contacts are left out unless IncludeOffline is set.
func (s *rosterStore) Entries() []backend.Contact {
	out := make([]backend.Contact, 0, len(s.entries))
	for _, c := range s.entries {
		if !s.includeOffline && !c.Online() {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Online() != out[j].Online() {
			return out[i].Online()
		}
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out
}

func (s *rosterStore) SetEntries(entries []backend.Contact) {
	s.entries = cloneContacts(entries)
}

func (s *rosterStore) OnlineCount() int {
	n := 0
	for _, c := range s.entries {
		if c.Online() {
			n++
		}
	}
	return n
}

func (s *rosterStore) Summary() PresenceSummary {
	var sum PresenceSummary
	for _, c := range s.entries {
		switch {
		case !c.Online():
			sum.Offline++
		case c.Presence == PresenceBusy:
			sum.Busy++
		case c.Presence == PresenceAway || c.Presence == "xa":
			sum.Away++
		default:
			sum.Online++
		}
	}
	return sum
}

func (s *rosterStore) IncludeOffline() bool {
	return s.includeOffline
}

func (s *rosterStore) SetIncludeOffline(include bool) {
	s.includeOffline = include
}

func cloneContacts(entries []backend.Contact) []backend.Contact {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]backend.Contact, len(entries))
	copy(dup, entries)
	return dup
}
