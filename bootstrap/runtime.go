package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/quantfold/finkit/cache"
	"github.com/quantfold/finkit/component"
	"github.com/quantfold/finkit/config"
	"github.com/quantfold/finkit/dispatch"
	"github.com/quantfold/finkit/health"
	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/marketdata"
	"github.com/quantfold/finkit/observability"
	"github.com/quantfold/finkit/provider"
	"github.com/quantfold/finkit/ratelimit"
	"github.com/quantfold/finkit/redis"
	"github.com/quantfold/finkit/resilience"
	"github.com/quantfold/finkit/server"
	"github.com/quantfold/finkit/version"
)

// shutdownTimeout bounds the stop sequence when Run exits on a signal.
const shutdownTimeout = 15 * time.Second

// Runtime is the fully assembled service: the provider registry, the
// dispatch pipeline around it, and the lifecycle components that keep it
// running. Build wires everything; Start and Shutdown drive the lifecycle.
type Runtime struct {
	Config     config.Config
	Registry   *provider.Registry
	Monitor    *health.Monitor
	Limits     *ratelimit.Limits
	Cache      *cache.Cache
	Dispatcher *dispatch.Dispatcher
	Server     *server.Server
	Components *component.Registry

	log    *logger.Logger
	meter  *sdkmetric.MeterProvider
	tracer *sdktrace.TracerProvider
}

// Build assembles a Runtime from cfg in dependency order: logger, telemetry,
// cache store, provider registry, health monitor, rate limits, dispatcher,
// cache warmer and HTTP server. Nothing starts until Start; a Build error
// leaves no goroutines or connections behind.
func Build(cfg config.Config) (*Runtime, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger.Init(cfg.Log)

	rt := &Runtime{
		Config:     cfg,
		Components: component.NewRegistry(),
		log:        logger.Get("bootstrap"),
	}

	var metrics *observability.Metrics
	if cfg.Telemetry.Enabled {
		m, err := rt.initTelemetry(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		metrics = m
	}

	store, err := rt.buildStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	rt.Cache = cache.New(store)
	if metrics != nil {
		rt.Cache.OnEvent = func(event string) {
			metrics.RecordCacheEvent(context.Background(), event)
		}
	}

	rt.Registry = provider.NewRegistry()
	if err := registerProviders(rt.Registry, cfg.Providers); err != nil {
		return nil, err
	}
	if rt.Registry.Len() == 0 {
		rt.log.Warn("no providers enabled; all dispatches will fail until one is registered")
	}

	rt.Monitor = health.NewMonitor(health.Config{
		ScanInterval: cfg.Dispatch.ProbeScanInterval,
	})
	if metrics != nil {
		rt.Monitor.OnStateChange = func(name string, from, to resilience.State) {
			metrics.RecordCircuitTransition(context.Background(), name, from.String(), to.String())
		}
	}
	if err := rt.Components.Register(newLoop("health-probe", func(ctx context.Context) {
		rt.Monitor.Run(ctx, rt.Registry)
	})); err != nil {
		return nil, err
	}

	rt.Limits = ratelimit.NewLimits()

	rt.Dispatcher = dispatch.New(dispatch.Config{
		Registry: rt.Registry,
		Monitor:  rt.Monitor,
		Limits:   rt.Limits,
		Cache:    rt.Cache,
		TTL:      cache.DefaultTTLPolicy().Merge(cfg.Cache.TTL),
		Metrics:  metrics,
	})

	if cfg.Cache.Warmer.Enabled {
		warmer := cache.NewWarmer(cache.WarmerConfig{
			Interval: cfg.Cache.Warmer.Interval,
			Symbols:  cfg.Cache.Warmer.Symbols,
		}, rt.warmQuote)
		if err := rt.Components.Register(newLoop("cache-warmer", warmer.Run)); err != nil {
			return nil, err
		}
	}

	rt.Server = server.New(cfg.Server)
	routes := &server.Routes{
		Dispatcher:      rt.Dispatcher,
		Registry:        rt.Registry,
		Monitor:         rt.Monitor,
		Limits:          rt.Limits,
		Cache:           rt.Cache,
		Ready:           rt.Components.HealthAll,
		DefaultDeadline: cfg.Server.DefaultDeadline,
	}
	routes.Register(rt.Server.Engine())
	if err := rt.Components.Register(rt.Server); err != nil {
		return nil, err
	}

	return rt, nil
}

// Start brings every component up in registration order. On failure the
// components already started are stopped before returning.
func (rt *Runtime) Start(ctx context.Context) error {
	if err := rt.Components.StartAll(ctx); err != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = rt.Components.StopAll(stopCtx)
		return err
	}
	rt.log.Info("runtime started", map[string]interface{}{
		"version":   version.Short(),
		"addr":      rt.Server.Addr(),
		"providers": rt.Registry.Len(),
		"cache":     rt.Config.Cache.Backend,
	})
	return nil
}

// Shutdown stops components in reverse registration order and flushes the
// telemetry exporters.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	err := rt.Components.StopAll(ctx)
	if rt.tracer != nil {
		if terr := rt.tracer.Shutdown(ctx); terr != nil && err == nil {
			err = terr
		}
	}
	if rt.meter != nil {
		if merr := rt.meter.Shutdown(ctx); merr != nil && err == nil {
			err = merr
		}
	}
	rt.log.Info("runtime stopped")
	return err
}

// Run starts the runtime and blocks until ctx ends or the process receives
// SIGINT or SIGTERM, then shuts down with a bounded grace period.
func (rt *Runtime) Run(ctx context.Context) error {
	if err := rt.Start(ctx); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case <-ctx.Done():
		rt.log.Info("context canceled, shutting down")
	case s := <-sig:
		rt.log.Info("signal received, shutting down", map[string]interface{}{
			"signal": s.String(),
		})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return rt.Shutdown(shutdownCtx)
}

// buildStore selects the cache backend. The redis client is constructed
// eagerly so the store can wrap it, but connectivity is only verified when
// its component starts.
func (rt *Runtime) buildStore(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "redis":
		client, err := redis.New(cfg.Redis, logger.Get("redis"))
		if err != nil {
			return nil, err
		}
		comp := redis.NewComponentWithClient(client, logger.Get("redis"))
		if err := rt.Components.Register(comp); err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client), nil
	default:
		return cache.NewMemoryStore(cfg.JanitorInterval), nil
	}
}

// warmQuote primes the cache for one symbol through the normal dispatch
// path, so warmed entries carry real provider attribution.
func (rt *Runtime) warmQuote(ctx context.Context, symbol string) error {
	_, err := rt.Dispatcher.Dispatch(ctx, marketdata.CapQuote, map[string]any{
		marketdata.ParamSymbol: symbol,
	})
	return err
}

func (rt *Runtime) initTelemetry(ctx context.Context, cfg config.Config) (*observability.Metrics, error) {
	mc := observability.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion = cfg.Version
	mc.Environment = cfg.Environment
	mc.Endpoint = cfg.Telemetry.Endpoint
	mc.Insecure = cfg.Telemetry.Insecure
	mc.Interval = cfg.Telemetry.Interval

	meter, err := observability.InitMeter(ctx, mc)
	if err != nil {
		return nil, err
	}
	rt.meter = meter

	tc := observability.DefaultTracerConfig(cfg.Name)
	tc.ServiceVersion = cfg.Version
	tc.Environment = cfg.Environment
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.Insecure = cfg.Telemetry.Insecure

	tracer, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return nil, err
	}
	rt.tracer = tracer

	return observability.NewMetrics(observability.Meter(cfg.Name))
}
