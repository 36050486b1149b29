package memory

import (
	"context"
	"sync"
	"time"

	"github.com/samirrijal/globeview/internal/core/domain"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Store is an in-process key-value store. It implements ports.KeyValueStore
// and ports.CacheService for single-instance deployments and tests.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string]entry), now: time.Now}
}

// Get returns domain.ErrNotFound for missing or expired keys.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && !s.now().Before(e.expires)) {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Put stores value without expiry.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.Set(ctx, key, value, 0)
}

// Set stores value for ttlSeconds; zero or less means no expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttlSeconds > 0 {
		e.expires = s.now().Add(time.Duration(ttlSeconds) * time.Second)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
