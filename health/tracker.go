package health

import (
	"sync"
	"time"

	"github.com/quantfold/finkit/resilience"
)

// latencyAlpha is the smoothing factor of the exponentially weighted average
// call latency: avg = alpha*sample + (1-alpha)*avg.
const latencyAlpha = 0.1

// Grade classifies a provider's overall condition for status reporting.
type Grade int

const (
	// GradeHealthy means the circuit is closed with no recent failures.
	GradeHealthy Grade = iota
	// GradeDegraded means the provider is usable but accumulating failures
	// or mid-recovery (half-open).
	GradeDegraded
	// GradeUnavailable means the circuit is open.
	GradeUnavailable
)

// String returns the grade name.
func (g Grade) String() string {
	switch g {
	case GradeHealthy:
		return "healthy"
	case GradeDegraded:
		return "degraded"
	case GradeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Status is a point-in-time health report for one provider.
type Status struct {
	Provider      string    `json:"provider"`
	Grade         string    `json:"grade"`
	Circuit       string    `json:"circuit"`
	Failures      int       `json:"consecutive_failures"`
	Opens         int       `json:"opens"`
	OpenUntil     time.Time `json:"open_until"`
	LastSuccess   time.Time `json:"last_success"`
	LastFailure   time.Time `json:"last_failure"`
	TotalCalls    uint64    `json:"total_calls"`
	TotalFailures uint64    `json:"total_failures"`
	AvgLatencyMS  float64   `json:"avg_latency_ms"`
}

// Tracker bundles a provider's circuit breaker with its call bookkeeping.
// All methods are safe for concurrent use.
type Tracker struct {
	name    string
	breaker *resilience.CircuitBreaker

	mu            sync.Mutex
	lastSuccess   time.Time
	lastFailure   time.Time
	lastProbe     time.Time
	totalCalls    uint64
	totalFailures uint64
	avgLatency    float64 // milliseconds, EWMA
}

// NewTracker creates a Tracker around the given breaker configuration.
func NewTracker(name string, cfg resilience.CircuitBreakerConfig) *Tracker {
	return &Tracker{
		name:    name,
		breaker: resilience.NewCircuitBreaker(cfg),
	}
}

// Name returns the provider name this tracker belongs to.
func (t *Tracker) Name() string { return t.name }

// Allow reports whether the provider may be called right now. In the
// half-open state only the first caller is admitted as the trial.
func (t *Tracker) Allow() bool {
	return t.breaker.Allow()
}

// State returns the current circuit state.
func (t *Tracker) State() resilience.State {
	return t.breaker.State()
}

// RecordSuccess reports a successful call and folds its latency into the
// moving average.
func (t *Tracker) RecordSuccess(latency time.Duration) {
	t.breaker.RecordSuccess()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSuccess = time.Now()
	t.totalCalls++
	sample := float64(latency) / float64(time.Millisecond)
	if t.avgLatency == 0 {
		t.avgLatency = sample
	} else {
		t.avgLatency = latencyAlpha*sample + (1-latencyAlpha)*t.avgLatency
	}
}

// RecordFailure reports a failed call. Rate-limit denials must not be
// reported here; the dispatcher skips the provider without recording.
func (t *Tracker) RecordFailure() {
	t.breaker.RecordFailure()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastFailure = time.Now()
	t.totalCalls++
	t.totalFailures++
}

// ReleaseTrial hands back a claimed half-open trial when the call's outcome
// was not a health verdict (the upstream throttled the trial rather than
// answering it), so the next caller can try again.
func (t *Tracker) ReleaseTrial() {
	t.breaker.ReleaseTrial()
}

// Reset forces the circuit closed and is exposed for the admin surface.
func (t *Tracker) Reset() {
	t.breaker.Reset()
}

// Status returns the provider's current health report.
func (t *Tracker) Status() Status {
	snap := t.breaker.Snapshot()

	t.mu.Lock()
	defer t.mu.Unlock()

	return Status{
		Provider:      t.name,
		Grade:         t.gradeLocked(snap).String(),
		Circuit:       snap.State.String(),
		Failures:      snap.Failures,
		Opens:         snap.Opens,
		OpenUntil:     snap.OpenUntil,
		LastSuccess:   t.lastSuccess,
		LastFailure:   t.lastFailure,
		TotalCalls:    t.totalCalls,
		TotalFailures: t.totalFailures,
		AvgLatencyMS:  t.avgLatency,
	}
}

// gradeLocked derives the coarse grade from circuit state and the failure
// count. Callers must hold mu.
func (t *Tracker) gradeLocked(snap resilience.BreakerSnapshot) Grade {
	switch snap.State {
	case resilience.StateOpen:
		return GradeUnavailable
	case resilience.StateHalfOpen:
		return GradeDegraded
	default:
		if snap.Failures > 0 {
			return GradeDegraded
		}
		return GradeHealthy
	}
}

// markProbe records when the provider was last actively probed.
func (t *Tracker) markProbe(at time.Time) {
	t.mu.Lock()
	t.lastProbe = at
	t.mu.Unlock()
}

// probeDue reports whether an active probe may run, given the descriptor's
// probe interval.
func (t *Tracker) probeDue(now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastProbe.IsZero() || now.Sub(t.lastProbe) >= interval
}
