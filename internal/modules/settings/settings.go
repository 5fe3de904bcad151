// Package settings persists user settings in <home>/settings.toml.
package settings

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
	"github.com/thoreinstein/jitsi/pkg/fileutil"
)

const (
	// ServiceName is the framework service name of the *Store.
	ServiceName = "settings"
	// FileName is the settings file inside the home directory.
	FileName = "settings.toml"
)

// Settings is the on-disk document.
type Settings struct {
	Launches   int               `toml:"launches"`
	LastLaunch time.Time         `toml:"last_launch"`
	Properties map[string]string `toml:"properties"`
}

// Store guards a Settings document and its file.
type Store struct {
	path string

	mu    sync.RWMutex
	data  Settings
	dirty bool
}

// Open loads the settings at path. A missing file yields empty settings.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	switch _, err := os.Stat(path); {
	case err == nil:
		if err := fileutil.ReadTOML(path, &s.data); err != nil {
			return nil, errors.Wrap(err, "loading settings")
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrap(err, "checking settings file")
	}
	if s.data.Properties == nil {
		s.data.Properties = make(map[string]string)
	}
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Get returns a property.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data.Properties[key]
	return v, ok
}

// Set stores a property. It is written on the next Save.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.data.Properties[key]; ok && cur == value {
		return
	}
	s.data.Properties[key] = value
	s.dirty = true
}

// Delete removes a property.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.Properties[key]; ok {
		delete(s.data.Properties, key)
		s.dirty = true
	}
}

// Keys returns the property names in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data.Properties))
	for k := range s.data.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the document.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.data
	out.Properties = make(map[string]string, len(s.data.Properties))
	for k, v := range s.data.Properties {
		out.Properties[k] = v
	}
	return out
}

// RecordLaunch bumps the launch counter.
func (s *Store) RecordLaunch(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Launches++
	s.data.LastLaunch = at.UTC().Truncate(time.Second)
	s.dirty = true
}

// Save writes the document if it changed since the last Save.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating settings directory")
	}
	if err := fileutil.AtomicWriteTOML(s.path, s.data, 0o600); err != nil {
		return errors.Wrap(err, "saving settings")
	}
	s.dirty = false
	return nil
}

// Module publishes the Store as a framework service.
type Module struct {
	store *Store
	now   func() time.Time
}

// New returns the settings activator.
func New() framework.Activator {
	return &Module{now: time.Now}
}

// Start loads the settings and records this launch.
func (m *Module) Start(ctx *framework.Context) error {
	store, err := Open(filepath.Join(ctx.Dirs().Home(), FileName))
	if err != nil {
		return err
	}
	store.RecordLaunch(m.now())
	if err := store.Save(); err != nil {
		return err
	}
	if err := ctx.RegisterService(ServiceName, store); err != nil {
		return err
	}
	m.store = store

	ctx.Logger().Debug("settings loaded",
		logging.ComponentKey, ServiceName,
		"path", store.Path(),
		"launches", store.Snapshot().Launches)
	return nil
}

// Stop flushes pending changes.
func (m *Module) Stop(*framework.Context) error {
	if m.store == nil {
		return nil
	}
	return m.store.Save()
}
