// Package ratelimit enforces per-provider request quotas. Each provider gets
// one token bucket, created lazily from its descriptor's rate policy the
// first time the dispatcher asks and kept for the process lifetime, so a
// hot-swapped descriptor reuses the existing window rather than resetting it.
//
// A denied acquisition means "skip this provider for this call". It is not a
// health signal and must never be reported to the provider's circuit breaker.
package ratelimit

import (
	"sync"

	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/provider"
	"github.com/quantfold/finkit/resilience"
)

// Limits owns the per-provider token buckets.
type Limits struct {
	log *logger.Logger

	mu      sync.RWMutex
	buckets map[string]*resilience.RateLimiter

	// OnDeny, when set before first use, is called with the provider name
	// on every denied acquisition (for metrics).
	OnDeny func(providerName string)
}

// NewLimits creates an empty bucket set.
func NewLimits() *Limits {
	return &Limits{
		log:     logger.Get("ratelimit"),
		buckets: make(map[string]*resilience.RateLimiter),
	}
}

// TryAcquire consumes one token from the provider's bucket, creating the
// bucket from the descriptor's rate policy on first reference. Descriptors
// without a rate policy are never throttled. Tokens are consumed per
// attempted call, regardless of whether the call later succeeds.
func (l *Limits) TryAcquire(desc provider.Descriptor) bool {
	if !desc.RateLimit.Enabled() {
		return true
	}
	return l.bucket(desc).Allow()
}

// Headroom reports the fraction of the provider's burst capacity currently
// available, in [0, 1]. Providers without a bucket report full headroom.
func (l *Limits) Headroom(name string) float64 {
	l.mu.RLock()
	b, ok := l.buckets[name]
	l.mu.RUnlock()
	if !ok {
		return 1.0
	}
	return b.Headroom()
}

// Names returns the providers that currently hold a bucket.
func (l *Limits) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.buckets))
	for name := range l.buckets {
		names = append(names, name)
	}
	return names
}

func (l *Limits) bucket(desc provider.Descriptor) *resilience.RateLimiter {
	l.mu.RLock()
	b, ok := l.buckets[desc.Name]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[desc.Name]; ok {
		return b
	}

	b = resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Name:  desc.Name,
		Rate:  desc.RateLimit.PerSecond,
		Burst: desc.RateLimit.Burst,
		OnLimit: func(name string) {
			l.log.Debug("rate limit denied", map[string]interface{}{
				logger.FieldProvider: name,
			})
			if l.OnDeny != nil {
				l.OnDeny(name)
			}
		},
	})
	l.buckets[desc.Name] = b

	l.log.Debug("rate window created", map[string]interface{}{
		logger.FieldProvider: desc.Name,
		"per_second":         desc.RateLimit.PerSecond,
		"burst":              desc.RateLimit.Burst,
	})
	return b
}
