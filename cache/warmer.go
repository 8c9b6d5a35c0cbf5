package cache

import (
	"context"
	"time"

	"github.com/quantfold/finkit/logger"
)

// DefaultWarmSymbols are the symbols primed when no list is configured.
var DefaultWarmSymbols = []string{
	"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA",
	"NVDA", "META", "NFLX", "BTC-USD", "ETH-USD",
}

// WarmFunc fetches one symbol so its result lands in the cache. The
// dispatcher supplies it; the warmer neither knows nor cares how the fetch
// happens.
type WarmFunc func(ctx context.Context, symbol string) error

// WarmerConfig configures the cache warmer.
type WarmerConfig struct {
	// Interval between warm passes. Default 5m.
	Interval time.Duration
	// Symbols to prime. Default DefaultWarmSymbols.
	Symbols []string
}

// Warmer keeps popular symbols resident in the cache so first readers
// after a TTL expiry do not all pay the provider round trip.
type Warmer struct {
	cfg  WarmerConfig
	warm WarmFunc
	log  *logger.Logger
}

// NewWarmer creates a Warmer driving the given WarmFunc.
func NewWarmer(cfg WarmerConfig, warm WarmFunc) *Warmer {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = DefaultWarmSymbols
	}
	return &Warmer{
		cfg:  cfg,
		warm: warm,
		log:  logger.Get("cache"),
	}
}

// Run warms once immediately, then on every interval tick until ctx is
// cancelled.
func (w *Warmer) Run(ctx context.Context) {
	w.log.Info("cache warmer started", map[string]interface{}{
		"interval": w.cfg.Interval.String(),
		"symbols":  len(w.cfg.Symbols),
	})

	w.warmOnce(ctx)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("cache warmer stopped")
			return
		case <-ticker.C:
			w.warmOnce(ctx)
		}
	}
}

func (w *Warmer) warmOnce(ctx context.Context) {
	for _, symbol := range w.cfg.Symbols {
		if ctx.Err() != nil {
			return
		}
		if err := w.warm(ctx, symbol); err != nil {
			// Warm failures are routine when providers are down; the
			// next real request will try again.
			w.log.Debug("warm fetch failed", map[string]interface{}{
				"symbol":          symbol,
				logger.FieldError: err.Error(),
			})
		}
	}
}
