// Package observability provides OpenTelemetry tracing and metrics for the
// orchestration layer.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("finkit"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanDispatch)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("finkit"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("finkit"))
//	metrics.RecordDispatch(ctx, "quote", "fmp", "ok", false, elapsed)
//
// When no provider is initialized the global no-op providers apply, so
// instrument calls are safe in any configuration.
package observability
