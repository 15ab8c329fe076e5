package prefs

import (
	"errors"
	"testing"
)

type fakeBacking struct {
	blobs  map[string][]byte
	writes int
}

func newFakeBacking() *fakeBacking {
	return &fakeBacking{blobs: make(map[string][]byte)}
}

func (f *fakeBacking) Read(key string) ([]byte, error) {
	if b, ok := f.blobs[key]; ok {
		return b, nil
	}
	return nil, errors.New("missing")
}

func (f *fakeBacking) Write(key string, value []byte) error {
	f.writes++
	f.blobs[key] = append([]byte(nil), value...)
	return nil
}

func TestSetGetRoundTrip(t *testing.T) {
	backing := newFakeBacking()
	s := New(backing)
	if err := s.Set("last-program", "prog-1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reloaded := New(backing)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, ok := reloaded.Get("last-program"); !ok || v != "prog-1" {
		t.Fatalf("expected persisted value, got %q ok=%v", v, ok)
	}
}

func TestSubscribeNotify(t *testing.T) {
	s := New(nil)
	var notified []string
	handle := s.Subscribe(func(key string) { notified = append(notified, key) })

	if err := s.Set("pane", "grid"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("pane", "grid"); err != nil { // unchanged: no notify
		t.Fatalf("set unchanged: %v", err)
	}
	if err := s.Delete("pane"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	s.Unsubscribe(handle)
	if err := s.Set("pane", "nav"); err != nil {
		t.Fatalf("set after unsubscribe: %v", err)
	}

	if len(notified) != 2 || notified[0] != "pane" || notified[1] != "pane" {
		t.Fatalf("unexpected notifications: %v", notified)
	}
}

func TestUnchangedSetSkipsPersist(t *testing.T) {
	backing := newFakeBacking()
	s := New(backing)
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	before := backing.writes
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if backing.writes != before {
		t.Fatal("unchanged set should not persist")
	}
}

func TestLoadMissingBlobStartsEmpty(t *testing.T) {
	s := New(newFakeBacking())
	if err := s.Load(); err != nil {
		t.Fatalf("load of empty backing should succeed: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Fatal("expected empty store")
	}
}
