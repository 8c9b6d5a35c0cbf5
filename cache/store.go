package cache

import (
	"context"
	"time"
)

// Entry is one memoized dispatch result. Provider records who answered; it
// is informational and plays no part in the key.
type Entry struct {
	Value     any           `json:"value"`
	Provider  string        `json:"provider"`
	FetchedAt time.Time     `json:"fetched_at"`
	TTL       time.Duration `json:"ttl"`
}

// Age reports how long ago the entry was fetched.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Expired reports whether the entry has outlived its TTL.
func (e *Entry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return e.Age(now) > e.TTL
}

// Store is a cache backend. Implementations must make Set last-writer-wins:
// concurrent writes to one key may race, but a reader always sees one
// complete entry, never a blend of two.
type Store interface {
	// Get returns the entry for key, or ok=false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) (*Entry, bool, error)

	// Set stores the entry under key for ttl. A ttl of 0 keeps the entry
	// until explicitly deleted.
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
