package cache

import "time"

// TTLPolicy maps operation classes to entry lifetimes. The cache itself
// never consults it; the dispatcher resolves the TTL and passes it in, so
// deployments can tune lifetimes without touching the stores.
type TTLPolicy struct {
	byClass  map[string]time.Duration
	fallback time.Duration
}

// NewTTLPolicy builds a policy from a class table and a fallback for
// classes the table does not name.
func NewTTLPolicy(byClass map[string]time.Duration, fallback time.Duration) TTLPolicy {
	classes := make(map[string]time.Duration, len(byClass))
	for class, ttl := range byClass {
		classes[class] = ttl
	}
	return TTLPolicy{byClass: classes, fallback: fallback}
}

// DefaultTTLPolicy returns the stock table: market quotes stay fresh for
// seconds, static company data for hours, AI output in between.
func DefaultTTLPolicy() TTLPolicy {
	return NewTTLPolicy(map[string]time.Duration{
		"quote":           30 * time.Second,
		"crypto-quote":    30 * time.Second,
		"market-overview": 5 * time.Minute,
		"search":          15 * time.Minute,
		"analyze":         30 * time.Minute,
		"sentiment":       30 * time.Minute,
		"market-insights": 30 * time.Minute,
		"profile":         time.Hour,
		"historical":      4 * time.Hour,
	}, time.Minute)
}

// Merge returns a copy of the policy with overrides layered on top of the
// existing class table. The fallback is unchanged.
func (p TTLPolicy) Merge(overrides map[string]time.Duration) TTLPolicy {
	if len(overrides) == 0 {
		return p
	}
	merged := make(map[string]time.Duration, len(p.byClass)+len(overrides))
	for class, ttl := range p.byClass {
		merged[class] = ttl
	}
	for class, ttl := range overrides {
		merged[class] = ttl
	}
	return TTLPolicy{byClass: merged, fallback: p.fallback}
}

// For resolves the TTL for an operation class.
func (p TTLPolicy) For(class string) time.Duration {
	if ttl, ok := p.byClass[class]; ok {
		return ttl
	}
	return p.fallback
}
