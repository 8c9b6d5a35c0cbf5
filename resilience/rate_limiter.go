package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when a request exceeds the rate limit.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig configures a rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for metrics/logging.
	Name string
	// Rate is the number of requests allowed per second.
	Rate float64
	// Burst is the maximum burst size.
	Burst int
	// OnLimit is called when a request is rate limited.
	OnLimit func(name string)
}

// DefaultRateLimiterConfig returns sensible defaults.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{
		Name:  name,
		Rate:  10.0,
		Burst: 20,
	}
}

// RateLimiter implements a non-blocking token bucket. The dispatcher probes
// it before every provider call; a denial skips the provider rather than
// queueing the request, so there is no blocking acquire.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter filled to its burst size.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10.0
	}
	if config.Burst <= 0 {
		config.Burst = int(config.Rate)
		if config.Burst < 1 {
			config.Burst = 1
		}
	}

	return &RateLimiter{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow consumes one token if available. Returns false without side effects
// when the bucket is empty.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN consumes n tokens if available. All n tokens are taken or none are.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.refill(); rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}

	if rl.config.OnLimit != nil {
		rl.config.OnLimit(rl.config.Name)
	}
	return false
}

// Execute runs fn if the rate limit allows, otherwise returns ErrRateLimited.
func (rl *RateLimiter) Execute(fn func() error) error {
	if !rl.Allow() {
		return ErrRateLimited
	}
	return fn()
}

// refill credits tokens for the time elapsed since the last refill, capped
// at the burst size. Callers hold rl.mu.
func (rl *RateLimiter) refill() {
	now := time.Now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.config.Rate
	rl.lastRefill = now

	if limit := float64(rl.config.Burst); rl.tokens > limit {
		rl.tokens = limit
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// Headroom returns the available tokens as a fraction of the burst size,
// between 0 and 1.
func (rl *RateLimiter) Headroom() float64 {
	return rl.Tokens() / float64(rl.config.Burst)
}

// Rate returns the rate limit in requests per second.
func (rl *RateLimiter) Rate() float64 {
	return rl.config.Rate
}

// Burst returns the burst size.
func (rl *RateLimiter) Burst() int {
	return rl.config.Burst
}
