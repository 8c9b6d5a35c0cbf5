package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// brokenStore fails every operation, standing in for an unreachable backend.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (*Entry, bool, error) {
	return nil, false, errors.New("backend down")
}
func (brokenStore) Set(context.Context, string, *Entry, time.Duration) error {
	return errors.New("backend down")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("backend down") }
func (brokenStore) Close() error                         { return nil }

func TestCache_PutThenGet(t *testing.T) {
	c := New(NewMemoryStore(0))
	defer c.Close()
	ctx := context.Background()

	key := Key("quote", map[string]any{"symbol": "AAPL"})

	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected miss before Put")
	}

	c.Put(ctx, key, map[string]any{"price": 182.5}, "fmp", 30*time.Second)

	entry, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if entry.Provider != "fmp" {
		t.Errorf("expected provider fmp, got %s", entry.Provider)
	}
	if entry.TTL != 30*time.Second {
		t.Errorf("expected TTL recorded on entry, got %s", entry.TTL)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCache_BackendErrorIsMiss(t *testing.T) {
	c := New(brokenStore{})
	ctx := context.Background()

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("backend error must read as a miss")
	}
	c.Put(ctx, "k", "v", "fmp", time.Minute)

	stats := c.Stats()
	if stats.Errors != 2 {
		t.Errorf("expected 2 errors counted, got %d", stats.Errors)
	}
	if stats.Sets != 0 {
		t.Errorf("failed writes must not count as sets, got %d", stats.Sets)
	}
}

func TestCache_NonPositiveTTLSkipsWrite(t *testing.T) {
	store := NewMemoryStore(0)
	c := New(store)
	defer c.Close()
	ctx := context.Background()

	c.Put(ctx, "k", "v", "fmp", 0)

	if store.Len() != 0 {
		t.Error("uncacheable classes must not be written")
	}
	if got := c.Stats().Sets; got != 0 {
		t.Errorf("expected 0 sets, got %d", got)
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New(NewMemoryStore(0))
	defer c.Close()
	ctx := context.Background()

	c.Put(ctx, "k", "v", "fmp", time.Minute)
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestCache_OnEvent(t *testing.T) {
	c := New(NewMemoryStore(0))
	defer c.Close()
	ctx := context.Background()

	var mu sync.Mutex
	var events []string
	c.OnEvent = func(event string) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	}

	c.Get(ctx, "k")
	c.Put(ctx, "k", "v", "fmp", time.Minute)
	c.Get(ctx, "k")

	mu.Lock()
	defer mu.Unlock()
	want := []string{"miss", "set", "hit"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], events[i])
		}
	}
}

func TestCache_HitRate(t *testing.T) {
	c := New(NewMemoryStore(0))
	defer c.Close()
	ctx := context.Background()

	c.Put(ctx, "k", "v", "fmp", time.Minute)
	for i := 0; i < 3; i++ {
		c.Get(ctx, "k")
	}
	c.Get(ctx, "other")

	if got := c.Stats().HitRate; got != 0.75 {
		t.Errorf("expected hit rate 0.75, got %f", got)
	}
}

func TestStats_EmptySnapshot(t *testing.T) {
	var s Stats
	snap := s.Snapshot()
	if snap.HitRate != 0 {
		t.Errorf("expected zero hit rate with no lookups, got %f", snap.HitRate)
	}
}
