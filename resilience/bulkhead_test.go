package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// occupy holds one bulkhead slot until the returned release func is called.
func occupy(t *testing.T, b *Bulkhead) func() {
	t.Helper()
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	return func() { close(release) }
}

func TestBulkheadRunsUpToCapacity(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "ai-calls", MaxConcurrent: 3})

	var completed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				completed.Add(1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("Execute() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := completed.Load(); got != 3 {
		t.Errorf("completed = %d, want 3", got)
	}
}

func TestBulkheadRejectsImmediatelyWithoutWait(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "ai-calls", MaxConcurrent: 1})
	defer occupy(t, b)()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Execute() error = %v, want ErrBulkheadFull", err)
	}
}

func TestBulkheadWaitsForFreedSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "ai-calls",
		MaxConcurrent: 1,
		MaxWait:       200 * time.Millisecond,
	})

	release := occupy(t, b)
	time.AfterFunc(20*time.Millisecond, release)

	start := time.Now()
	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if waited := time.Since(start); waited < 10*time.Millisecond {
		t.Errorf("waited %v, expected to block until the slot freed", waited)
	}
}

func TestBulkheadWaitTimesOut(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "ai-calls",
		MaxConcurrent: 1,
		MaxWait:       10 * time.Millisecond,
	})
	defer occupy(t, b)()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("Execute() error = %v, want ErrBulkheadTimeout", err)
	}
}

func TestBulkheadWaitHonorsCallerContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "ai-calls",
		MaxConcurrent: 1,
		MaxWait:       time.Second,
	})
	defer occupy(t, b)()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := b.Execute(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want DeadlineExceeded", err)
	}
}

func TestBulkheadRejectCallbackReceivesName(t *testing.T) {
	var rejectedName atomic.Value

	b := NewBulkhead(BulkheadConfig{
		Name:          "anthropic",
		MaxConcurrent: 1,
		OnReject:      func(name string) { rejectedName.Store(name) },
	})
	defer occupy(t, b)()

	_ = b.Execute(context.Background(), func() error { return nil })

	if got, _ := rejectedName.Load().(string); got != "anthropic" {
		t.Errorf("OnReject name = %q, want anthropic", got)
	}
}

func TestBulkheadSlotAccounting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "ai-calls", MaxConcurrent: 3})

	if got := b.Available(); got != 3 {
		t.Fatalf("Available() = %d, want 3", got)
	}

	release := occupy(t, b)
	if got := b.InUse(); got != 1 {
		t.Errorf("InUse() = %d, want 1", got)
	}
	if got := b.Available(); got != 2 {
		t.Errorf("Available() = %d, want 2", got)
	}

	release()
	deadline := time.Now().Add(time.Second)
	for b.Available() != 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := b.Available(); got != 3 {
		t.Errorf("Available() after release = %d, want 3", got)
	}
}

func TestBulkheadExecuteWithResult(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("ai-calls"))

	got, err := ExecuteWithResult(b, context.Background(), func() (string, error) {
		return "bullish", nil
	})
	if err != nil {
		t.Fatalf("ExecuteWithResult() error = %v", err)
	}
	if got != "bullish" {
		t.Errorf("ExecuteWithResult() = %q, want bullish", got)
	}
}

func TestBulkheadDefaultsZeroCapacity(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "ai-calls"})
	if got := b.MaxConcurrent(); got != 10 {
		t.Errorf("MaxConcurrent() = %d, want default 10", got)
	}
}
