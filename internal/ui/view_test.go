package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/controlbox/internal/host"
	uistate "github.com/atomicstack/controlbox/internal/ui/state"
	"github.com/charmbracelet/lipgloss"
)

func TestTruncateText(t *testing.T) {
	if got := truncateText("contacts", 4); got != "con…" {
		t.Fatalf("expected truncated text, got %q", got)
	}
	if got := truncateText("abc", 0); got != "abc" {
		t.Fatalf("expected untouched text, got %q", got)
	}
	if got := truncateText("abc", 1); got != "a" {
		t.Fatalf("expected single rune, got %q", got)
	}
}

func TestLimitHeightAddsEllipsis(t *testing.T) {
	lines := []styledLine{{text: "a"}, {text: "b"}, {text: "c"}}
	got := limitHeight(lines, 2, 10)
	if len(got) != 2 || got[1].text != "…" {
		t.Fatalf("unexpected lines %#v", got)
	}
	if len(limitHeight(lines, 0, 10)) != 3 {
		t.Fatalf("expected no limit for zero height")
	}
}

func TestPresenceGlyph(t *testing.T) {
	cases := map[string]uistate.Item{
		"●": {Online: true, Presence: "online"},
		"◐": {Online: true, Presence: "away"},
		"⊘": {Online: true, Presence: "dnd"},
		"○": {Presence: "offline"},
	}
	for want, item := range cases {
		if got := presenceGlyph(item); got != want {
			t.Fatalf("presence %q: expected %q, got %q", item.Presence, want, got)
		}
	}
}

func TestBoxFitsWidth(t *testing.T) {
	f := newFixture(t, host.Options{ShowControlBoxByDefault: true})
	f.start()
	f.connect()
	f.roster(sampleRoster...)
	for _, line := range strings.Split(f.harness.View(), "\n") {
		if w := lipgloss.Width(line); w > 60 {
			t.Fatalf("line exceeds width (%d): %q", w, line)
		}
	}
}

func TestRosterViewportFollowsCursor(t *testing.T) {
	f := newFixture(t, host.Options{ShowControlBoxByDefault: true})
	f.start()
	f.connect()
	m := f.model()
	m.height = 10
	f.roster(sampleRoster...)
	rows := m.maxVisibleItems()
	if rows < 1 {
		t.Fatalf("expected at least one visible row, got %d", rows)
	}
	m.list.MoveCursorEnd()
	m.syncViewport()
	if m.list.Cursor < m.list.ViewportOffset || m.list.Cursor >= m.list.ViewportOffset+rows {
		t.Fatalf("cursor %d outside viewport offset %d (rows %d)", m.list.Cursor, m.list.ViewportOffset, rows)
	}
}

func TestToggleTextWhileDisconnected(t *testing.T) {
	f := newFixture(t, host.Options{})
	f.start()
	if got := f.model().toggleText(); got != "Toggle chat" {
		t.Fatalf("expected disconnected label, got %q", got)
	}
}
