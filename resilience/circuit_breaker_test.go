package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testClock is a manually advanced clock for driving breaker transitions.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(config CircuitBreakerConfig) (*CircuitBreaker, *testClock) {
	cb := NewCircuitBreaker(config)
	clk := newTestClock()
	cb.now = clk.Now
	return cb, clk
}

func TestCircuitBreaker_StartsInClosedState(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("test"))

	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Error("closed breaker should admit calls")
	}
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 3,
		BaseBackoff: time.Second,
	})

	for i := 0; i < 3; i++ {
		if !cb.Allow() {
			t.Fatalf("call %d should be admitted", i)
		}
		cb.RecordFailure()
	}

	if cb.State() != StateOpen {
		t.Errorf("expected StateOpen, got %s", cb.State())
	}
	if cb.Allow() {
		t.Error("open breaker should reject calls")
	}

	err := cb.Execute(func() error {
		t.Error("function should not have been called")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_FailureWindowExpires(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 3,
		Window:      10 * time.Second,
		BaseBackoff: time.Second,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	clk.Advance(11 * time.Second)
	cb.RecordFailure()

	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
	if got := cb.Failures(); got != 1 {
		t.Errorf("expected 1 failure in the fresh window, got %d", got)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 3,
		BaseBackoff: time.Second,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	if got := cb.Failures(); got != 0 {
		t.Errorf("expected 0 failures after success, got %d", got)
	}

	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenAfterBackoffElapses(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Second,
	})

	cb.RecordFailure()

	if cb.Allow() {
		t.Error("breaker should reject during the open interval")
	}

	clk.Advance(999 * time.Millisecond)
	if cb.Allow() {
		t.Error("breaker should still reject just before open-until")
	}

	clk.Advance(time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Errorf("expected StateHalfOpen, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Error("trial call should be admitted once open-until elapses")
	}
}

func TestCircuitBreaker_SingleTrialDuringHalfOpen(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Second,
	})

	cb.RecordFailure()
	clk.Advance(time.Second)

	var admitted int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cb.Allow() {
				atomic.AddInt32(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	if admitted != 1 {
		t.Errorf("expected exactly 1 admitted trial, got %d", admitted)
	}
}

func TestCircuitBreaker_ReleaseTrialFreesSlot(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Second,
	})

	cb.RecordFailure()
	clk.Advance(time.Second)

	if !cb.Allow() {
		t.Fatal("first caller should claim the trial")
	}
	if cb.Allow() {
		t.Fatal("second caller should be rejected while the trial is held")
	}

	cb.ReleaseTrial()

	if cb.State() != StateHalfOpen {
		t.Errorf("releasing the trial must not change state, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Error("released trial should admit the next caller")
	}
}

func TestCircuitBreaker_TrialSuccessClosesAndResetsBackoff(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Second,
		MaxBackoff:  60 * time.Second,
	})

	// Two consecutive trips double the open interval.
	cb.RecordFailure()
	clk.Advance(time.Second)
	if !cb.Allow() {
		t.Fatal("trial should be admitted")
	}
	cb.RecordFailure()

	if got := cb.Snapshot().OpenUntil.Sub(clk.Now()); got != 2*time.Second {
		t.Fatalf("expected 2s open interval after second trip, got %v", got)
	}

	// A successful trial closes the breaker and resets the progression.
	clk.Advance(2 * time.Second)
	if !cb.Allow() {
		t.Fatal("trial should be admitted")
	}
	cb.RecordSuccess()

	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
	if got := cb.Snapshot().Opens; got != 0 {
		t.Errorf("expected opens reset to 0, got %d", got)
	}

	// The next trip starts over at the base interval.
	cb.RecordFailure()
	if got := cb.Snapshot().OpenUntil.Sub(clk.Now()); got != time.Second {
		t.Errorf("expected base 1s interval after recovery, got %v", got)
	}
}

func TestCircuitBreaker_TrialFailureReopens(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Second,
	})

	cb.RecordFailure()
	clk.Advance(time.Second)

	if !cb.Allow() {
		t.Fatal("trial should be admitted")
	}
	cb.RecordFailure()

	if cb.State() != StateOpen {
		t.Errorf("expected StateOpen after failed trial, got %s", cb.State())
	}

	// The doubled interval keeps rejecting for a full 2s.
	clk.Advance(time.Second)
	if cb.Allow() {
		t.Error("breaker should still be open halfway through the doubled interval")
	}
	clk.Advance(time.Second)
	if !cb.Allow() {
		t.Error("trial should be admitted after the doubled interval")
	}
}

func TestCircuitBreaker_BackoffCappedAtMax(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Second,
		MaxBackoff:  4 * time.Second,
	})

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second}

	cb.RecordFailure()
	for i, interval := range want {
		if got := cb.Snapshot().OpenUntil.Sub(clk.Now()); got != interval {
			t.Errorf("trip %d: expected open interval %v, got %v", i+1, interval, got)
		}
		clk.Advance(interval)
		if !cb.Allow() {
			t.Fatalf("trip %d: trial should be admitted after %v", i+1, interval)
		}
		cb.RecordFailure()
	}
}

func TestCircuitBreaker_RecoveryScenario(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "quotes",
		MaxFailures: 3,
		Window:      10 * time.Second,
		BaseBackoff: time.Second,
		MaxBackoff:  60 * time.Second,
	})

	// Three failures in quick succession trip the breaker.
	for i := 0; i < 3; i++ {
		cb.RecordFailure()
		clk.Advance(100 * time.Millisecond)
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected StateOpen, got %s", cb.State())
	}

	// A failed probe doubles the wait.
	clk.Advance(time.Second)
	if !cb.Allow() {
		t.Fatal("probe should be admitted")
	}
	cb.RecordFailure()

	// A successful probe two seconds later restores service.
	clk.Advance(2 * time.Second)
	if !cb.Allow() {
		t.Fatal("probe should be admitted")
	}
	cb.RecordSuccess()

	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
	snap := cb.Snapshot()
	if snap.Failures != 0 || snap.Opens != 0 {
		t.Errorf("expected counters reset, got failures=%d opens=%d", snap.Failures, snap.Opens)
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 2,
		BaseBackoff: time.Second,
	})

	var called bool
	if err := cb.Execute(func() error {
		called = true
		return nil
	}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("function was not called")
	}

	testErr := errors.New("upstream down")
	for i := 0; i < 2; i++ {
		if err := cb.Execute(func() error { return testErr }); !errors.Is(err, testErr) {
			t.Errorf("expected testErr, got %v", err)
		}
	}

	if cb.State() != StateOpen {
		t.Errorf("expected StateOpen, got %s", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Hour,
	})

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("expected StateOpen, got %s", cb.State())
	}

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed after reset, got %s", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("expected 0 failures after reset, got %d", cb.Failures())
	}
	if got := cb.Snapshot().Opens; got != 0 {
		t.Errorf("expected opens reset, got %d", got)
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var mu sync.Mutex
	var transitions []string

	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		BaseBackoff: time.Second,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			transitions = append(transitions, from.String()+">"+to.String())
			mu.Unlock()
		},
	})

	cb.RecordFailure()
	clk.Advance(time.Second)
	_ = cb.State() // moves open to half-open
	if !cb.Allow() {
		t.Fatal("trial should be admitted")
	}
	cb.RecordSuccess()

	mu.Lock()
	defer mu.Unlock()

	want := []string{"closed>open", "open>half-open", "half-open>closed"}
	if len(transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %v", len(want), len(transitions), transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d: expected %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("test"))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(func() error {
				return nil
			})
			_ = cb.State()
			_ = cb.Snapshot()
		}()
	}
	wg.Wait()

	// Should still be closed after all successes
	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}
