package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/provider"
	"github.com/quantfold/finkit/resilience"
)

// Config holds the monitor-wide defaults applied where a descriptor leaves
// its breaker policy unset, plus the probe loop cadence.
type Config struct {
	// MaxFailures is the default failure threshold.
	MaxFailures int
	// Window is the default rolling failure window.
	Window time.Duration
	// BaseBackoff is the default first open interval.
	BaseBackoff time.Duration
	// MaxBackoff is the default open interval cap.
	MaxBackoff time.Duration
	// ScanInterval is how often the probe loop wakes up.
	ScanInterval time.Duration
}

// DefaultConfig returns the monitor defaults.
func DefaultConfig() Config {
	return Config{
		MaxFailures:  5,
		Window:       60 * time.Second,
		BaseBackoff:  time.Second,
		MaxBackoff:   60 * time.Second,
		ScanInterval: 30 * time.Second,
	}
}

// Monitor owns the per-provider health trackers. Trackers are created
// lazily on first reference and live for the process lifetime, so a
// hot-swapped provider inherits the history of the name it replaces.
type Monitor struct {
	cfg Config
	log *logger.Logger

	mu       sync.RWMutex
	trackers map[string]*Tracker

	// OnStateChange, when set before first use, receives every circuit
	// transition (for metrics). Called synchronously from the breaker.
	OnStateChange func(providerName string, from, to resilience.State)
}

// NewMonitor creates a Monitor with the given defaults.
func NewMonitor(cfg Config) *Monitor {
	def := DefaultConfig()
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = def.BaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = def.ScanInterval
	}
	return &Monitor{
		cfg:      cfg,
		log:      logger.Get("health"),
		trackers: make(map[string]*Tracker),
	}
}

// Tracker returns the tracker for the descriptor's provider, creating it on
// first reference. The breaker policy is fixed at creation; later descriptor
// replacements keep the existing health state.
func (m *Monitor) Tracker(desc provider.Descriptor) *Tracker {
	m.mu.RLock()
	t, ok := m.trackers[desc.Name]
	m.mu.RUnlock()
	if ok {
		return t
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trackers[desc.Name]; ok {
		return t
	}
	t = NewTracker(desc.Name, m.breakerConfig(desc))
	m.trackers[desc.Name] = t
	return t
}

// Lookup returns the tracker for a provider name, if one exists yet.
func (m *Monitor) Lookup(name string) (*Tracker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trackers[name]
	return t, ok
}

// Statuses returns the health reports of every tracked provider, sorted by
// name.
func (m *Monitor) Statuses() []Status {
	m.mu.RLock()
	trackers := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		trackers = append(trackers, t)
	}
	m.mu.RUnlock()

	statuses := make([]Status, len(trackers))
	for i, t := range trackers {
		statuses[i] = t.Status()
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Provider < statuses[j].Provider })
	return statuses
}

// Run executes the probe loop until ctx ends. Each pass it scans the
// registry for providers whose circuit is not closed, and where the invoker
// supports probing and the probe interval has elapsed, claims the half-open
// trial with a cheap liveness check so recovery does not wait for live
// traffic.
func (m *Monitor) Run(ctx context.Context, reg *provider.Registry) {
	ticker := time.NewTicker(m.cfg.ScanInterval)
	defer ticker.Stop()

	m.log.Info("probe loop started", map[string]interface{}{
		"scan_interval": m.cfg.ScanInterval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			m.log.Info("probe loop stopped")
			return
		case <-ticker.C:
			m.scan(ctx, reg)
		}
	}
}

// scan runs one probe pass over the registry.
func (m *Monitor) scan(ctx context.Context, reg *provider.Registry) {
	now := time.Now()
	for _, name := range reg.Names() {
		desc, ok := reg.Get(name)
		if !ok {
			continue
		}
		prober, ok := desc.Invoker.(provider.Prober)
		if !ok {
			continue
		}

		t := m.Tracker(desc)
		if t.State() == resilience.StateClosed {
			continue
		}
		if !t.probeDue(now, desc.ProbeInterval) {
			continue
		}
		if !t.Allow() {
			// Still open, or a live call already holds the trial.
			continue
		}
		m.probe(ctx, prober, desc, t)
	}
}

// probe runs one liveness check as the provider's half-open trial.
func (m *Monitor) probe(ctx context.Context, prober provider.Prober, desc provider.Descriptor, t *Tracker) {
	timeout := desc.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := prober.Probe(probeCtx)
	t.markProbe(start)

	if err != nil {
		t.RecordFailure()
		m.log.Warn("probe failed", map[string]interface{}{
			logger.FieldProvider: desc.Name,
			logger.FieldError:    err.Error(),
		})
		return
	}
	t.RecordSuccess(time.Since(start))
	m.log.Info("probe succeeded, circuit closed", map[string]interface{}{
		logger.FieldProvider: desc.Name,
	})
}

// breakerConfig builds the breaker configuration for a descriptor, falling
// back to the monitor defaults and wiring transition logging.
func (m *Monitor) breakerConfig(desc provider.Descriptor) resilience.CircuitBreakerConfig {
	pol := desc.Breaker
	cfg := resilience.CircuitBreakerConfig{
		Name:        desc.Name,
		MaxFailures: pol.MaxFailures,
		Window:      pol.Window,
		BaseBackoff: pol.BaseBackoff,
		MaxBackoff:  pol.MaxBackoff,
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = m.cfg.MaxFailures
	}
	if cfg.Window <= 0 {
		cfg.Window = m.cfg.Window
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = m.cfg.BaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = m.cfg.MaxBackoff
	}

	cfg.OnStateChange = func(name string, from, to resilience.State) {
		fields := map[string]interface{}{
			logger.FieldProvider: name,
			logger.FieldCircuit:  to.String(),
			"from":               from.String(),
		}
		if to == resilience.StateOpen {
			m.log.Warn("circuit opened", fields)
		} else {
			m.log.Info("circuit transition", fields)
		}
		if m.OnStateChange != nil {
			m.OnStateChange(name, from, to)
		}
	}
	return cfg
}
