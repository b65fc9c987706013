// Package store persists the control box session record.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atomicstack/controlbox/internal/host"
	"gopkg.in/yaml.v3"
)

// Memory keeps the record for the lifetime of the process.
type Memory struct {
	mu     sync.Mutex
	record host.Record
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{record: host.Record{}}
}

// Save merges patch into the record.
func (m *Memory) Save(patch host.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range patch {
		m.record[k] = v
	}
	return nil
}

// Load returns a copy of the record.
func (m *Memory) Load() (host.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.record), nil
}

// File keeps the record in a yaml document on disk.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a store backed by path. The file is created on first save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

// Load reads the record. A missing file yields an empty record.
func (f *File) Load() (host.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *File) read() (host.Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return host.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	rec := host.Record{}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", f.path, err)
	}
	return rec, nil
}

// Save merges patch into the record on disk.
func (f *File) Save(patch host.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range patch {
		rec[k] = v
	}
	data, err := yaml.Marshal(map[string]interface{}(rec))
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Loader is implemented by stores that can hydrate a record at startup.
type Loader interface {
	Load() (host.Record, error)
}

func clone(rec host.Record) host.Record {
	out := make(host.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

var (
	_ host.Store = (*Memory)(nil)
	_ host.Store = (*File)(nil)
	_ Loader     = (*Memory)(nil)
	_ Loader     = (*File)(nil)
)
