// Package resilience provides the fault-tolerance primitives the failover
// dispatcher is built from.
//
//   - CircuitBreaker: tri-state breaker (closed, open, half-open) with an
//     exponentially growing open interval
//   - RateLimiter: non-blocking token bucket probed before each upstream call
//   - Retry: bounded retries with exponential backoff and jitter
//   - Bulkhead: caps in-flight calls to an upstream
//
// The dispatcher checks a provider's rate limiter and circuit breaker before
// invoking it and records the outcome afterwards. A rate-limit denial skips
// the provider without counting against its health. Vendor adapters use
// Retry for transient transport errors and Bulkhead for expensive model
// calls.
package resilience
