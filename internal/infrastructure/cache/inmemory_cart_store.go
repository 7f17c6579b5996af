package cache

import (
	"context"
	"sync"
	"time"
)

type cartEntry struct {
	cartID    string
	expiresAt time.Time
}

// InMemoryCartStore keeps cart ids in a process-local map.
// It is suitable for single-instance deployments and testing: carts are
// lost on restart and not shared between instances.
type InMemoryCartStore struct {
	mu      sync.RWMutex
	entries map[string]cartEntry
	now     func() time.Time
}

// NewInMemoryCartStore creates a new in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		entries: make(map[string]cartEntry),
		now:     time.Now,
	}
}

// Get returns the active cart id for scope. Expired entries are dropped on read.
func (s *InMemoryCartStore) Get(ctx context.Context, scope string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	e, ok := s.entries[scope]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[scope]; ok && cur == e {
			delete(s.entries, scope)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return e.cartID, true, nil
}

// Save stores cartID for scope. A zero ttl never expires.
func (s *InMemoryCartStore) Save(ctx context.Context, scope, cartID string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := cartEntry{cartID: cartID}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[scope] = e
	s.mu.Unlock()
	return nil
}

// Delete forgets the cart for scope
func (s *InMemoryCartStore) Delete(ctx context.Context, scope string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, scope)
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored entries, including expired ones not yet read
func (s *InMemoryCartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ping always succeeds unless ctx is done
func (s *InMemoryCartStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *InMemoryCartStore) Close() error {
	return nil
}
