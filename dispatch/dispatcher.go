package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/quantfold/finkit/cache"
	"github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/health"
	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/observability"
	"github.com/quantfold/finkit/provider"
	"github.com/quantfold/finkit/ratelimit"
)

// defaultCallTimeout bounds invocations whose descriptor sets no timeout.
const defaultCallTimeout = 10 * time.Second

// Config wires a Dispatcher's collaborators. Registry, Monitor and Limits are
// required; Cache and Metrics are optional.
type Config struct {
	Registry *provider.Registry
	Monitor  *health.Monitor
	Limits   *ratelimit.Limits
	// Cache memoizes successful dispatches. Nil disables caching entirely.
	Cache *cache.Cache
	// TTL resolves how long each capability's results stay fresh. Only
	// consulted when Cache is set.
	TTL cache.TTLPolicy
	// Metrics records dispatch and provider-call instruments when set.
	Metrics *observability.Metrics
}

// Dispatcher routes one logical operation to the first healthy, in-quota
// provider that serves it. Safe for concurrent use.
type Dispatcher struct {
	registry *provider.Registry
	monitor  *health.Monitor
	limits   *ratelimit.Limits
	cache    *cache.Cache
	ttl      cache.TTLPolicy
	metrics  *observability.Metrics
	log      *logger.Logger
}

// New creates a Dispatcher from cfg.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		registry: cfg.Registry,
		monitor:  cfg.Monitor,
		limits:   cfg.Limits,
		cache:    cfg.Cache,
		ttl:      cfg.TTL,
		metrics:  cfg.Metrics,
		log:      logger.Get("dispatch"),
	}
}

// Result is the outcome of a successful dispatch.
type Result struct {
	// Value is the provider payload, or the cached copy of one.
	Value any `json:"value"`
	// Provider names the provider that produced Value. For a cache hit this
	// is the provider that originally filled the entry, which may no longer
	// be registered.
	Provider string `json:"provider"`
	// CacheHit reports whether Value was served from cache.
	CacheHit bool `json:"cache_hit"`
	// CacheAge is how long ago a cached Value was fetched. Zero on live calls.
	CacheAge time.Duration `json:"cache_age,omitempty"`
	// Attempts lists the candidates skipped or failed before the winner, in
	// the order they were considered.
	Attempts []errors.Attempt `json:"attempts,omitempty"`
	// Elapsed is the total time the dispatch took.
	Elapsed time.Duration `json:"elapsed"`
}

// Dispatch resolves capability with params against the cache and the
// registered providers. On failure it returns one of UNKNOWN_CAPABILITY,
// DEADLINE_EXCEEDED or ALL_PROVIDERS_EXHAUSTED; the latter two carry the
// per-candidate attempt log.
func (d *Dispatcher) Dispatch(ctx context.Context, capability provider.Capability, params map[string]any) (*Result, error) {
	start := time.Now()

	ctx, span := observability.StartSpan(ctx, observability.SpanDispatch)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCapability, string(capability))

	key := cache.Key(string(capability), params)

	if d.cache != nil {
		if entry, ok := d.cache.Get(ctx, key); ok {
			elapsed := time.Since(start)
			observability.SetSpanAttribute(ctx, observability.AttrProvider, entry.Provider)
			observability.SetSpanAttribute(ctx, observability.AttrCacheHit, true)
			d.recordDispatch(ctx, capability, entry.Provider, "ok", true, elapsed)
			d.log.Debug("dispatch served from cache", map[string]interface{}{
				logger.FieldCapability: string(capability),
				logger.FieldProvider:   entry.Provider,
				logger.FieldCacheKey:   key,
			})
			return &Result{
				Value:    entry.Value,
				Provider: entry.Provider,
				CacheHit: true,
				CacheAge: entry.Age(time.Now()),
				Elapsed:  elapsed,
			}, nil
		}
	}

	candidates, err := d.registry.Candidates(capability)
	if err != nil {
		observability.SetSpanError(ctx, err)
		d.recordDispatch(ctx, capability, "", "unknown_capability", false, time.Since(start))
		return nil, err
	}

	attempts := make([]errors.Attempt, 0, len(candidates))
	causes := make([]error, 0, len(candidates))

	for _, desc := range candidates {
		if ctx.Err() != nil {
			return nil, d.deadlineExceeded(ctx, capability, attempts, start)
		}

		if !d.limits.TryAcquire(desc) {
			skip := errors.RateLimited(desc.Name)
			attempts = append(attempts, attemptOf(desc.Name, skip))
			causes = append(causes, skip)
			continue
		}

		tracker := d.monitor.Tracker(desc)
		if !tracker.Allow() {
			skip := errors.CircuitOpen(desc.Name)
			attempts = append(attempts, attemptOf(desc.Name, skip))
			causes = append(causes, skip)
			continue
		}

		value, latency, callErr := d.invoke(ctx, desc, capability, params)
		if callErr == nil {
			tracker.RecordSuccess(latency)
			d.recordCall(ctx, desc.Name, "success", latency)
			if d.cache != nil {
				d.cache.Put(ctx, key, value, desc.Name, d.ttl.For(string(capability)))
			}
			elapsed := time.Since(start)
			observability.SetSpanAttribute(ctx, observability.AttrProvider, desc.Name)
			observability.SetSpanAttribute(ctx, observability.AttrAttempts, len(attempts)+1)
			d.recordDispatch(ctx, capability, desc.Name, "ok", false, elapsed)
			d.log.Info("dispatched", map[string]interface{}{
				logger.FieldCapability: string(capability),
				logger.FieldProvider:   desc.Name,
				logger.FieldDuration:   elapsed.Milliseconds(),
				"skipped":              len(attempts),
			})
			return &Result{
				Value:    value,
				Provider: desc.Name,
				Attempts: attempts,
				Elapsed:  elapsed,
			}, nil
		}

		failure := errors.Normalize(desc.Name, callErr)
		if errors.IsRateLimited(failure) {
			// The upstream throttled us; that is a quota verdict, not a
			// health one, so it must not move the breaker.
			tracker.ReleaseTrial()
		} else {
			tracker.RecordFailure()
		}
		d.recordCall(ctx, desc.Name, strings.ToLower(string(failure.Code)), latency)
		attempts = append(attempts, attemptOf(desc.Name, failure))
		causes = append(causes, failure)
		d.log.Warn("provider call failed", map[string]interface{}{
			logger.FieldCapability: string(capability),
			logger.FieldProvider:   desc.Name,
			logger.FieldError:      failure.Error(),
		})
	}

	if ctx.Err() != nil {
		return nil, d.deadlineExceeded(ctx, capability, attempts, start)
	}

	exhausted := errors.Exhausted(string(capability), attempts, causes...)
	observability.SetSpanError(ctx, exhausted)
	d.recordDispatch(ctx, capability, "", "exhausted", false, time.Since(start))
	d.log.Error("all providers exhausted", map[string]interface{}{
		logger.FieldCapability: string(capability),
		"attempts":             len(attempts),
	})
	return nil, exhausted
}

// invoke calls desc's Invoker under the tighter of the descriptor timeout and
// the caller's remaining deadline, and returns the raw outcome with the call
// latency.
func (d *Dispatcher) invoke(ctx context.Context, desc provider.Descriptor, capability provider.Capability, params map[string]any) (any, time.Duration, error) {
	timeout := desc.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	callCtx, span := observability.StartSpan(callCtx, observability.SpanProviderCall)
	defer span.End()
	observability.SetSpanAttribute(callCtx, observability.AttrProvider, desc.Name)

	callStart := time.Now()
	value, err := desc.Invoker.Invoke(callCtx, capability, params)
	latency := time.Since(callStart)

	if err != nil {
		observability.SetSpanError(callCtx, err)
	}
	return value, latency, err
}

func (d *Dispatcher) deadlineExceeded(ctx context.Context, capability provider.Capability, attempts []errors.Attempt, start time.Time) error {
	err := errors.DeadlineExceeded(string(capability), attempts)
	observability.SetSpanError(ctx, err)
	d.recordDispatch(ctx, capability, "", "deadline_exceeded", false, time.Since(start))
	d.log.Warn("dispatch deadline exceeded", map[string]interface{}{
		logger.FieldCapability: string(capability),
		"attempts":             len(attempts),
	})
	return err
}

func (d *Dispatcher) recordDispatch(ctx context.Context, capability provider.Capability, providerName, status string, cacheHit bool, elapsed time.Duration) {
	if d.metrics == nil {
		return
	}
	d.metrics.RecordDispatch(ctx, string(capability), providerName, status, cacheHit, elapsed)
}

func (d *Dispatcher) recordCall(ctx context.Context, providerName, outcome string, latency time.Duration) {
	if d.metrics == nil {
		return
	}
	d.metrics.RecordProviderCall(ctx, providerName, outcome, latency)
}

func attemptOf(providerName string, err *errors.AppError) errors.Attempt {
	return errors.Attempt{Provider: providerName, Code: err.Code, Message: err.Message}
}
