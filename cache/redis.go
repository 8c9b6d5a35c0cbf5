package cache

import (
	"context"
	"time"

	"github.com/quantfold/finkit/redis"
)

// RedisStore is a Store on Redis, for deployments that share one cache
// across replicas. Entries are JSON documents under the client's key
// prefix; expiry is enforced server-side through SET TTLs.
type RedisStore struct {
	store *redis.TypedStore[Entry]
}

// NewRedisStore creates a RedisStore on the given client. The client's
// lifecycle belongs to its component; closing the store does not close it.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		store: redis.NewTypedStore[Entry](client, client.KeyPrefix()),
	}
}

// Get returns the entry for key.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	entry, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if entry == nil {
		return nil, false, nil
	}
	return entry, true, nil
}

// Set stores the entry under key for ttl.
func (s *RedisStore) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	return s.store.Save(ctx, key, entry, ttl)
}

// Delete removes the key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// Close is a no-op; the underlying client is owned by its component.
func (s *RedisStore) Close() error {
	return nil
}
