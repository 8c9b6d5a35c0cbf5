package cache

import (
	"context"
	"time"

	"github.com/quantfold/finkit/logger"
)

// Cache is the dispatcher's view of a Store. It owns the traffic counters
// and absorbs backend errors: a failed lookup is a miss, a failed write is
// logged and dropped. Dispatches never fail because the cache did.
type Cache struct {
	store Store
	stats Stats
	log   *logger.Logger
	now   func() time.Time

	// OnEvent, when set before first use, receives one of
	// "hit", "miss", "set", "error" per cache operation (for metrics).
	OnEvent func(event string)
}

// New wraps a Store.
func New(store Store) *Cache {
	return &Cache{
		store: store,
		log:   logger.Get("cache"),
		now:   time.Now,
	}
}

// Get looks up key. Backend errors count as misses.
func (c *Cache) Get(ctx context.Context, key string) (*Entry, bool) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.stats.errors.Add(1)
		c.event("error")
		c.log.Warn("cache get failed", map[string]interface{}{
			logger.FieldCacheKey: key,
			logger.FieldError:    err.Error(),
		})
		return nil, false
	}
	if !ok {
		c.stats.misses.Add(1)
		c.event("miss")
		return nil, false
	}

	c.stats.hits.Add(1)
	c.event("hit")
	return entry, true
}

// Put memoizes value under key for ttl, recording which provider produced
// it. A non-positive ttl means the operation class is uncacheable; the
// write is skipped. Writes are best-effort.
func (c *Cache) Put(ctx context.Context, key string, value any, providerName string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	entry := &Entry{
		Value:     value,
		Provider:  providerName,
		FetchedAt: c.now(),
		TTL:       ttl,
	}
	if err := c.store.Set(ctx, key, entry, ttl); err != nil {
		c.stats.errors.Add(1)
		c.event("error")
		c.log.Warn("cache set failed", map[string]interface{}{
			logger.FieldCacheKey: key,
			logger.FieldError:    err.Error(),
		})
		return
	}

	c.stats.sets.Add(1)
	c.event("set")
}

// Invalidate removes key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Stats reads the traffic counters.
func (c *Cache) Stats() StatsSnapshot {
	return c.stats.Snapshot()
}

// Close closes the backend.
func (c *Cache) Close() error {
	return c.store.Close()
}

func (c *Cache) event(name string) {
	if c.OnEvent != nil {
		c.OnEvent(name)
	}
}
