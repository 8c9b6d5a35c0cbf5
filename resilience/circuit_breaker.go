package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state.
type State int

const (
	// StateClosed admits every call.
	StateClosed State = iota
	// StateOpen rejects every call until the open interval elapses.
	StateOpen
	// StateHalfOpen admits a single trial call.
	StateHalfOpen
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies this breaker for metrics/logging.
	Name string
	// MaxFailures is the number of failures within Window that trips the
	// breaker.
	MaxFailures int
	// Window bounds how long failures accumulate toward MaxFailures. A
	// failure arriving after the window has elapsed starts a fresh count.
	// Zero means failures never expire.
	Window time.Duration
	// BaseBackoff is the open interval after the first trip. Every
	// consecutive trip doubles the interval, up to MaxBackoff.
	BaseBackoff time.Duration
	// MaxBackoff caps the open interval.
	MaxBackoff time.Duration
	// OnStateChange is called synchronously on every transition. It must
	// not call back into the breaker.
	OnStateChange func(name string, from, to State)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:        name,
		MaxFailures: 5,
		Window:      60 * time.Second,
		BaseBackoff: time.Second,
		MaxBackoff:  60 * time.Second,
	}
}

// CircuitBreaker fails fast once an upstream accumulates too many failures.
//
// The breaker stays closed until MaxFailures failures land within Window.
// It then opens for BaseBackoff, doubled on every consecutive trip and
// capped at MaxBackoff. Once the open interval elapses the next Allow admits
// exactly one trial call; concurrent callers are rejected until the trial
// outcome is recorded. A successful trial closes the breaker and resets the
// backoff progression, a failed trial re-opens it for the next longer
// interval.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	now    func() time.Time

	mu          sync.Mutex
	state       State
	failures    int       // failures inside the current window
	windowStart time.Time // first failure of the current window
	opens       int       // consecutive trips, keys the backoff
	openUntil   time.Time
	trial       bool // half-open trial currently in flight
	lastChange  time.Time
}

// BreakerSnapshot is a point-in-time view of breaker state for status
// reporting.
type BreakerSnapshot struct {
	State      State     `json:"state"`
	Failures   int       `json:"failures"`
	Opens      int       `json:"opens"`
	OpenUntil  time.Time `json:"open_until"`
	LastChange time.Time `json:"last_change"`
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.BaseBackoff <= 0 {
		config.BaseBackoff = time.Second
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 60 * time.Second
	}

	cb := &CircuitBreaker{
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
	cb.lastChange = cb.now()
	return cb
}

// Allow reports whether a call may proceed. In the half-open state only the
// first caller is admitted as the trial; everyone else is rejected as if the
// breaker were still open.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.effectiveStateLocked() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.trial {
			return false
		}
		cb.trial = true
		return true
	default:
		return false
	}
}

// RecordSuccess records a successful call. A successful half-open trial
// closes the breaker and resets both the failure count and the backoff
// progression; a success while closed only resets the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.trial = false
		cb.failures = 0
		cb.opens = 0
		cb.transitionLocked(StateClosed)
	}
	// A success landing while open is a stale result from a call started
	// before the trip; the open interval stands.
}

// RecordFailure records a failed call, tripping the breaker when the
// failure threshold is reached or when a half-open trial fails.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	switch cb.state {
	case StateClosed:
		if cb.failures > 0 && cb.config.Window > 0 && now.Sub(cb.windowStart) > cb.config.Window {
			cb.failures = 0
		}
		if cb.failures == 0 {
			cb.windowStart = now
		}
		cb.failures++
		if cb.failures >= cb.config.MaxFailures {
			cb.tripLocked(now)
		}
	case StateHalfOpen:
		cb.trial = false
		cb.tripLocked(now)
	}
}

// ReleaseTrial frees a claimed half-open trial without recording an
// outcome, leaving the breaker half-open so another caller can take the
// trial. Used when the trial call ended in a verdict that is not a health
// signal, such as an upstream quota denial.
func (cb *CircuitBreaker) ReleaseTrial() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.trial = false
	}
}

// Execute runs fn if the breaker admits the call and records the outcome.
// Returns ErrCircuitOpen when the call is rejected.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}
	if err := fn(); err != nil {
		cb.RecordFailure()
		return err
	}
	cb.RecordSuccess()
	return nil
}

// State returns the current state, moving an expired open interval to
// half-open.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.effectiveStateLocked()
}

// Failures returns the failure count of the current window.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Snapshot returns a point-in-time view of the breaker.
func (cb *CircuitBreaker) Snapshot() BreakerSnapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return BreakerSnapshot{
		State:      cb.effectiveStateLocked(),
		Failures:   cb.failures,
		Opens:      cb.opens,
		OpenUntil:  cb.openUntil,
		LastChange: cb.lastChange,
	}
}

// Reset forces the breaker back to closed, clearing the failure count and
// the backoff progression.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.opens = 0
	cb.trial = false
	cb.openUntil = time.Time{}
	cb.transitionLocked(StateClosed)
}

// effectiveStateLocked moves open to half-open once the open interval has
// elapsed and returns the resulting state. Callers must hold mu.
func (cb *CircuitBreaker) effectiveStateLocked() State {
	if cb.state == StateOpen && !cb.now().Before(cb.openUntil) {
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

// tripLocked opens the circuit for the next backoff interval. Callers must
// hold mu.
func (cb *CircuitBreaker) tripLocked(now time.Time) {
	cb.opens++
	cb.openUntil = now.Add(cb.backoffLocked())
	cb.failures = 0
	cb.transitionLocked(StateOpen)
}

// backoffLocked returns BaseBackoff doubled once per consecutive trip past
// the first, capped at MaxBackoff. Callers must hold mu.
func (cb *CircuitBreaker) backoffLocked() time.Duration {
	d := cb.config.BaseBackoff
	for i := 1; i < cb.opens && d < cb.config.MaxBackoff; i++ {
		d *= 2
	}
	if d > cb.config.MaxBackoff {
		d = cb.config.MaxBackoff
	}
	return d
}

// transitionLocked changes state and fires the OnStateChange callback.
// Callers must hold mu.
func (cb *CircuitBreaker) transitionLocked(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.lastChange = cb.now()
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
