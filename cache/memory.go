package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	entry     *Entry
	expiresAt time.Time
}

// MemoryStore is an in-process Store. A janitor goroutine sweeps expired
// entries so an idle key does not pin its value forever; reads also check
// expiry so a hit is never stale even between sweeps.
type MemoryStore struct {
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a MemoryStore. When janitorInterval is positive a
// background sweep runs at that cadence until Close.
func NewMemoryStore(janitorInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	if janitorInterval > 0 {
		go s.janitor(janitorInterval)
	}
	return s
}

// Get returns the live entry for key.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	s.mu.RLock()
	me, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !me.expiresAt.IsZero() && s.now().After(me.expiresAt) {
		return nil, false, nil
	}
	return me.entry, true, nil
}

// Set stores entry under key, replacing any previous value whole.
func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{entry: entry, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// Delete removes the key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor. Safe to call multiple times.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len reports the number of stored entries, including not-yet-swept
// expired ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()

	s.mu.Lock()
	for key, me := range s.entries {
		if !me.expiresAt.IsZero() && now.After(me.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}
