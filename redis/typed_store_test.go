package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/quantfold/finkit/logger"
)

type cachedQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Source string  `json:"source,omitempty"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	t.Cleanup(mini.Close)

	cfg := Config{Addr: mini.Addr()}
	cfg.ApplyDefaults()

	client, err := New(cfg, logger.NewDefault("redis-test"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func TestTypedStoreRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[cachedQuote](client, "quotes")
	ctx := context.Background()

	in := cachedQuote{Symbol: "AAPL", Price: 154.20, Source: "fmp"}
	if err := store.Save(ctx, "AAPL", &in, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || got.Symbol != "AAPL" || got.Price != 154.20 || got.Source != "fmp" {
		t.Errorf("Load() = %+v, want %+v", got, in)
	}
}

func TestTypedStoreMissIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[cachedQuote](client, "quotes")

	got, err := store.Load(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != nil {
		t.Errorf("Load() = %+v, want nil for absent key", got)
	}
}

func TestTypedStoreDelete(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[cachedQuote](client, "quotes")
	ctx := context.Background()

	store.Save(ctx, "MSFT", &cachedQuote{Symbol: "MSFT"}, 0)
	if err := store.Delete(ctx, "MSFT"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got, err := store.Load(ctx, "MSFT"); err != nil || got != nil {
		t.Errorf("Load() after delete = %+v, %v; want nil, nil", got, err)
	}
}

func TestTypedStoreHonorsTTL(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[cachedQuote](client, "quotes")
	ctx := context.Background()

	if err := store.Save(ctx, "NVDA", &cachedQuote{Symbol: "NVDA"}, 2*time.Second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, _ := store.Load(ctx, "NVDA"); got == nil {
		t.Fatal("Load() before expiry = nil, want entry")
	}

	mini.FastForward(3 * time.Second)

	if got, err := store.Load(ctx, "NVDA"); err != nil || got != nil {
		t.Errorf("Load() after expiry = %+v, %v; want nil, nil", got, err)
	}
}

func TestTypedStoreNamespacing(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	prefixed := NewTypedStore[cachedQuote](client, "finkit:quote")
	if err := prefixed.Save(ctx, "AAPL", &cachedQuote{Symbol: "AAPL"}, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mini.Exists("finkit:quote:AAPL") {
		t.Error("prefixed key not stored under finkit:quote namespace")
	}

	bare := NewTypedStore[cachedQuote](client, "")
	if err := bare.Save(ctx, "AAPL", &cachedQuote{Symbol: "AAPL"}, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mini.Exists("AAPL") {
		t.Error("empty prefix should store the raw key")
	}
}
