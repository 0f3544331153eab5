package store

import (
	"context"
	"sync"
	"time"

	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/ports"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore implements the Store interface using an in-memory map.
// This is primarily intended for testing purposes.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewMemory creates a new MemoryStore
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string]entry)}
}

// Set stores a key with a value and expiration time
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

// Get retrieves a value by key
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.live(key)
	if !ok {
		return "", core.ErrKeyNotFound
	}
	return e.value, nil
}

// Del removes a key
func (s *MemoryStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Exists checks whether a key is present
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.live(key)
	return ok, nil
}

// TTL returns the remaining lifetime of a key with Redis sentinel semantics.
func (s *MemoryStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.live(key)
	if !ok {
		return ports.TTLKeyMissing, nil
	}
	if e.expiresAt.IsZero() {
		return ports.TTLNoExpiry, nil
	}
	return time.Until(e.expiresAt), nil
}

// Len reports the number of live entries. Useful in tests to assert that an
// operation left the store untouched.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for key := range s.data {
		if _, ok := s.live(key); ok {
			n++
		}
	}
	return n
}

// live returns the entry for key if it exists and has not expired.
// Callers must hold at least a read lock. Expired entries stay in the map
// until overwritten; every read path filters them out here.
func (s *MemoryStore) live(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return entry{}, false
	}
	return e, true
}
