// Package prefs holds UI preference state (last opened program/day, pane
// sizes) behind an instantiable store with an explicit subscribe/notify
// lifecycle. Persistence is an injected backing collaborator rather than a
// package-level global.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// Backing persists the preference map between sessions.
type Backing interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
}

// DiskvBacking stores preferences as one JSON blob under a diskv base path.
type DiskvBacking struct {
	d *diskv.Diskv
}

// NewDiskvBacking creates a diskv-backed persistence layer rooted at basePath.
func NewDiskvBacking(basePath string) *DiskvBacking {
	return &DiskvBacking{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 64 * 1024,
	})}
}

func (b *DiskvBacking) Read(key string) ([]byte, error)        { return b.d.Read(key) }
func (b *DiskvBacking) Write(key string, value []byte) error   { return b.d.Write(key, value) }

const blobKey = "prefs"

// Store is an in-memory preference map with change notification. All methods
// are safe for concurrent use, though the TUI only touches it from the event
// loop.
type Store struct {
	mu      sync.RWMutex
	values  map[string]string
	backing Backing
	subs    map[int]func(key string)
	nextSub int
}

// New creates a store over the given backing. A nil backing yields a purely
// in-memory store (used by tests).
func New(backing Backing) *Store {
	return &Store{
		values:  make(map[string]string),
		backing: backing,
		subs:    make(map[int]func(key string)),
	}
}

// Load pulls the persisted blob into memory. A missing blob is not an error.
func (s *Store) Load() error {
	if s.backing == nil {
		return nil
	}
	data, err := s.backing.Read(blobKey)
	if err != nil {
		// diskv surfaces missing keys as generic errors; start empty either way
		return nil
	}
	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("prefs: decode: %w", err)
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Get returns the stored value and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value, persists the map, and notifies subscribers. Writing an
// unchanged value is a no-op.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return errors.New("prefs: key required")
	}
	s.mu.Lock()
	if existing, ok := s.values[key]; ok && existing == value {
		s.mu.Unlock()
		return nil
	}
	s.values[key] = value
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	err := s.flushLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
	return err
}

// Delete removes a key, persists, and notifies subscribers.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	if _, ok := s.values[key]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.values, key)
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	err := s.flushLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
	return err
}

// Subscribe registers a change callback and returns a handle for Unsubscribe.
func (s *Store) Subscribe(fn func(key string)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	s.subs[s.nextSub] = fn
	return s.nextSub
}

// Unsubscribe removes a previously registered callback.
func (s *Store) Unsubscribe(handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, handle)
}

func (s *Store) flushLocked() error {
	if s.backing == nil {
		return nil
	}
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := s.backing.Write(blobKey, data); err != nil {
		return fmt.Errorf("prefs: persist: %w", err)
	}
	return nil
}
