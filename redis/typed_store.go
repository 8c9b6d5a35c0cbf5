package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TypedStore reads and writes one JSON-encoded value type under a key
// namespace. The response cache's Redis backend keeps its entries in one,
// namespaced so several finkit instances can share a Redis database.
type TypedStore[V any] struct {
	client *Client
	prefix string
}

// NewTypedStore creates a TypedStore on the given client. A non-empty
// prefix is joined to every key with a colon.
func NewTypedStore[V any](client *Client, prefix string) *TypedStore[V] {
	return &TypedStore[V]{client: client, prefix: prefix}
}

// Load fetches and decodes the value at key. A missing key yields
// (nil, nil) so callers can treat absence as a cache miss rather than
// a failure.
func (s *TypedStore[V]) Load(ctx context.Context, key string) (*V, error) {
	raw, err := s.client.Get(ctx, s.namespaced(key))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis load %q: %w", key, err)
	}

	val := new(V)
	if err := json.Unmarshal([]byte(raw), val); err != nil {
		return nil, fmt.Errorf("redis decode %q: %w", key, err)
	}
	return val, nil
}

// Save encodes val and stores it under key. A zero ttl stores without
// expiration.
func (s *TypedStore[V]) Save(ctx context.Context, key string, val *V, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("redis encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, s.namespaced(key), string(data), ttl); err != nil {
		return fmt.Errorf("redis save %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *TypedStore[V]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.namespaced(key)); err != nil {
		return fmt.Errorf("redis delete %q: %w", key, err)
	}
	return nil
}

func (s *TypedStore[V]) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
