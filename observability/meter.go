package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/quantfold/finkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the orchestration layer's metric instruments.
type Metrics struct {
	dispatchTotal      metric.Int64Counter
	dispatchDuration   metric.Float64Histogram
	providerCalls      metric.Int64Counter
	providerDuration   metric.Float64Histogram
	cacheEvents        metric.Int64Counter
	circuitTransitions metric.Int64Counter
	ratelimitDenied    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	dispatchTotal, err := meter.Int64Counter("dispatch.requests",
		metric.WithDescription("Dispatches by capability, provider, status, and cache outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.requests counter: %w", err)
	}

	dispatchDuration, err := meter.Float64Histogram("dispatch.duration",
		metric.WithDescription("End-to-end dispatch duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.duration histogram: %w", err)
	}

	providerCalls, err := meter.Int64Counter("provider.calls",
		metric.WithDescription("Provider invocations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.calls counter: %w", err)
	}

	providerDuration, err := meter.Float64Histogram("provider.call.duration",
		metric.WithDescription("Provider call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.call.duration histogram: %w", err)
	}

	cacheEvents, err := meter.Int64Counter("cache.events",
		metric.WithDescription("Cache hits, misses, sets, and errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache.events counter: %w", err)
	}

	circuitTransitions, err := meter.Int64Counter("circuit.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating circuit.transitions counter: %w", err)
	}

	ratelimitDenied, err := meter.Int64Counter("ratelimit.denied",
		metric.WithDescription("Rate limiter denials by provider"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ratelimit.denied counter: %w", err)
	}

	return &Metrics{
		dispatchTotal:      dispatchTotal,
		dispatchDuration:   dispatchDuration,
		providerCalls:      providerCalls,
		providerDuration:   providerDuration,
		cacheEvents:        cacheEvents,
		circuitTransitions: circuitTransitions,
		ratelimitDenied:    ratelimitDenied,
	}, nil
}

// RecordDispatch records one completed dispatch.
func (m *Metrics) RecordDispatch(ctx context.Context, capability, provider, status string, cacheHit bool, duration time.Duration) {
	m.dispatchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("capability", capability),
		attribute.String("provider", provider),
		attribute.String("status", status),
		attribute.Bool("cache", cacheHit),
	))
	m.dispatchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("capability", capability),
	))
}

// RecordProviderCall records one provider invocation.
func (m *Metrics) RecordProviderCall(ctx context.Context, provider, outcome string, duration time.Duration) {
	m.providerCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
	m.providerDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

// RecordCacheEvent records a cache hit, miss, set, or error.
func (m *Metrics) RecordCacheEvent(ctx context.Context, event string) {
	m.cacheEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
	))
}

// RecordCircuitTransition records a breaker state change.
func (m *Metrics) RecordCircuitTransition(ctx context.Context, provider, from, to string) {
	m.circuitTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordRateLimitDenial records a denied token acquisition.
func (m *Metrics) RecordRateLimitDenial(ctx context.Context, provider string) {
	m.ratelimitDenied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
	))
}
