package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

type memClock struct {
	mu sync.Mutex
	t  time.Time
}

func newMemClock() *memClock {
	return &memClock{t: time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *memClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *memClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_SetAndGet(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	entry := &Entry{Value: 123.45, Provider: "fmp", FetchedAt: time.Now(), TTL: time.Minute}
	if err := s.Set(ctx, "quote:abc", entry, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := s.Get(ctx, "quote:abc")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Value != 123.45 || got.Provider != "fmp" {
		t.Errorf("unexpected entry %+v", got)
	}
}

func TestMemoryStore_Miss(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown key")
	}
}

func TestMemoryStore_ExpiresAfterTTL(t *testing.T) {
	clk := newMemClock()
	s := NewMemoryStore(0)
	defer s.Close()
	s.now = clk.Now
	ctx := context.Background()

	s.Set(ctx, "k", &Entry{Value: 1}, 30*time.Second)

	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before TTL")
	}

	clk.Advance(31 * time.Second)

	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	clk := newMemClock()
	s := NewMemoryStore(0)
	defer s.Close()
	s.now = clk.Now
	ctx := context.Background()

	s.Set(ctx, "k", &Entry{Value: 1}, 0)
	clk.Advance(1000 * time.Hour)

	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Error("entries stored without a TTL must not expire")
	}
}

func TestMemoryStore_LastWriterWins(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "k", &Entry{Value: "first", Provider: "fmp"}, time.Minute)
	s.Set(ctx, "k", &Entry{Value: "second", Provider: "yahoo"}, time.Minute)

	got, ok, _ := s.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Value != "second" || got.Provider != "yahoo" {
		t.Errorf("expected the later write, got %+v", got)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "k", &Entry{Value: 1}, time.Minute)
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("expected miss after delete")
	}

	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting a missing key should not error: %v", err)
	}
}

func TestMemoryStore_JanitorSweeps(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "short", &Entry{Value: 1}, 5*time.Millisecond)
	s.Set(ctx, "long", &Entry{Value: 2}, time.Hour)

	time.Sleep(50 * time.Millisecond)

	if got := s.Len(); got != 1 {
		t.Errorf("expected janitor to evict the expired entry, Len()=%d", got)
	}
	if _, ok, _ := s.Get(ctx, "long"); !ok {
		t.Error("live entry must survive the sweep")
	}
}

func TestMemoryStore_CloseIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := Key("quote", map[string]any{"symbol": "AAPL"})
			s.Set(ctx, key, &Entry{Value: n}, time.Minute)
			s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	key := Key("quote", map[string]any{"symbol": "AAPL"})
	if _, ok, _ := s.Get(ctx, key); !ok {
		t.Error("expected a complete entry after concurrent writes")
	}
}
