package semreg

import (
	"bytes"
	"fmt"
	"slices"
	"sync"
)

// MemStore is a transient in-memory store, intended for tests and for tools
// that only need a scratch hive.
type MemStore struct {
	mu     sync.Mutex
	values map[ValuePath]Value
	closed bool

	identity string
	hub      *watchHub
}

var _ WatchableStore = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore(opt StoreOptions) *MemStore {
	return &MemStore{
		values:   make(map[ValuePath]Value),
		identity: opt.identityOrDefault(),
		hub:      newWatchHub(opt.Logger),
	}
}

func (s *MemStore) Identity() string { return s.identity }

func (s *MemStore) ReadValue(path ValuePath) (Value, error) {
	path = ResolveCurrentUser(path, s.identity)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Value{}, fmt.Errorf("store closed")
	}
	v, found := s.values[path]
	if !found {
		return Value{}, fmt.Errorf("%s: %w", path, ErrValueNotFound)
	}
	return Value{Type: v.Type, Data: slices.Clone(v.Data)}, nil
}

func (s *MemStore) WriteValue(path ValuePath, v Value) error {
	path = ResolveCurrentUser(path, s.identity)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("store closed")
	}
	if old, found := s.values[path]; found && old.Type == v.Type && bytes.Equal(old.Data, v.Data) {
		s.mu.Unlock()
		return nil
	}
	s.values[path] = Value{Type: v.Type, Data: slices.Clone(v.Data)}
	s.mu.Unlock()

	s.hub.notifyWrite(path, v.Data)
	return nil
}

func (s *MemStore) DeleteValue(path ValuePath) error {
	path = ResolveCurrentUser(path, s.identity)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("store closed")
	}
	_, found := s.values[path]
	delete(s.values, path)
	s.mu.Unlock()

	if found {
		s.hub.notifyDelete(path)
	}
	return nil
}

func (s *MemStore) WatchKeys(keys ...KeyPath) (*ValueWatcher, error) {
	return s.hub.subscribe(resolveCurrentUserKeys(keys, s.identity))
}

func (s *MemStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.values = nil
	s.mu.Unlock()
	s.hub.close()
	return nil
}
