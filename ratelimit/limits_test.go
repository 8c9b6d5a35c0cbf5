package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/quantfold/finkit/provider"
)

func limitedDescriptor(name string, perSecond float64, burst int) provider.Descriptor {
	return provider.Descriptor{
		Name:         name,
		Capabilities: []provider.Capability{"quote"},
		RateLimit: provider.RatePolicy{
			PerSecond: perSecond,
			Burst:     burst,
		},
	}
}

func TestLimits_AllowsWithinBurst(t *testing.T) {
	l := NewLimits()
	desc := limitedDescriptor("fmp", 0.001, 3)

	for i := 0; i < 3; i++ {
		if !l.TryAcquire(desc) {
			t.Fatalf("acquisition %d should succeed within burst", i)
		}
	}
	if l.TryAcquire(desc) {
		t.Error("acquisition past burst should be denied")
	}
}

func TestLimits_UnlimitedProvider(t *testing.T) {
	l := NewLimits()
	desc := provider.Descriptor{
		Name:         "internal",
		Capabilities: []provider.Capability{"quote"},
	}

	for i := 0; i < 100; i++ {
		if !l.TryAcquire(desc) {
			t.Fatal("providers without a rate policy must never be throttled")
		}
	}
	if got := l.Headroom("internal"); got != 1.0 {
		t.Errorf("expected full headroom for unlimited provider, got %f", got)
	}
}

func TestLimits_BucketSurvivesReplacement(t *testing.T) {
	l := NewLimits()

	for i := 0; i < 2; i++ {
		l.TryAcquire(limitedDescriptor("fmp", 0.001, 2))
	}

	// A hot-swapped descriptor with a bigger burst reuses the drained window.
	if l.TryAcquire(limitedDescriptor("fmp", 0.001, 50)) {
		t.Error("expected denial: the rate window outlives descriptor replacement")
	}
}

func TestLimits_Headroom(t *testing.T) {
	l := NewLimits()
	desc := limitedDescriptor("fmp", 0.001, 4)

	l.TryAcquire(desc)
	l.TryAcquire(desc)

	got := l.Headroom("fmp")
	if got < 0.45 || got > 0.6 {
		t.Errorf("expected roughly half headroom, got %f", got)
	}
}

func TestLimits_OnDenyCallback(t *testing.T) {
	l := NewLimits()
	var denied int32
	l.OnDeny = func(name string) {
		if name == "fmp" {
			atomic.AddInt32(&denied, 1)
		}
	}

	desc := limitedDescriptor("fmp", 0.001, 1)
	l.TryAcquire(desc)
	l.TryAcquire(desc)
	l.TryAcquire(desc)

	if got := atomic.LoadInt32(&denied); got != 2 {
		t.Errorf("expected 2 denials, got %d", got)
	}
}

func TestLimits_Names(t *testing.T) {
	l := NewLimits()
	l.TryAcquire(limitedDescriptor("fmp", 1, 1))
	l.TryAcquire(limitedDescriptor("yahoo", 1, 1))

	names := l.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["fmp"] || !seen["yahoo"] {
		t.Errorf("expected fmp and yahoo, got %v", names)
	}
}

func TestLimits_ConcurrentAcquire(t *testing.T) {
	l := NewLimits()
	desc := limitedDescriptor("fmp", 0.001, 50)

	var granted int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire(desc) {
				atomic.AddInt32(&granted, 1)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&granted); got != 50 {
		t.Errorf("expected exactly 50 grants, got %d", got)
	}
}
