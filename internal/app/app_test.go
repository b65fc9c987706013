package app

import (
	"path/filepath"
	"testing"

	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/store"
)

type nopSender struct{ kinds []string }

func (s *nopSender) Send(kind string, _ interface{}) error {
	s.kinds = append(s.kinds, kind)
	return nil
}

func TestNewSessionRestoresRecord(t *testing.T) {
	mem := store.NewMemory()
	if err := mem.Save(host.Record{host.KeyClosed: true, host.KeyActivePanel: "contacts"}); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	session, err := NewSession(Config{Options: host.Options{ShowControlBoxByDefault: true}}, &nopSender{}, mem, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	state := session.Controller.State()
	if !state.IsClosed() {
		t.Fatalf("expected the stored closed flag to be restored")
	}
	if session.Context.Options.Authentication != host.AuthLogin {
		t.Fatalf("expected options defaults, got %q", session.Context.Options.Authentication)
	}
	if session.Context.Emitter != session.Hub {
		t.Fatalf("expected the hub to be the emitter")
	}
	if session.Model == nil {
		t.Fatalf("expected a model")
	}
}

func TestNewSessionStickyIgnoresStoredClose(t *testing.T) {
	mem := store.NewMemory()
	if err := mem.Save(host.Record{host.KeyClosed: true}); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	session, err := NewSession(Config{Options: host.Options{StickyControlBox: true}}, &nopSender{}, mem, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if session.Controller.State().IsClosed() {
		t.Fatalf("sticky control box must not restore as closed")
	}
}

func TestOpenStore(t *testing.T) {
	if _, ok := openStore("").(*store.Memory); !ok {
		t.Fatalf("expected memory store for empty path")
	}
	path := filepath.Join(t.TempDir(), "record.yaml")
	f, ok := openStore(path).(*store.File)
	if !ok {
		t.Fatalf("expected file store")
	}
	if f.Path() != path {
		t.Fatalf("expected path %q, got %q", path, f.Path())
	}
}

func TestNewSessionFileStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	session, err := NewSession(Config{}, &nopSender{}, openStore(path), nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if session.Controller.State().Closed != nil {
		t.Fatalf("expected no closed flag without a stored record")
	}
}
