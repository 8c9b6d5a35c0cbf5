package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantfold/finkit/logger"
)

// stopTimeout bounds how long a single component gets to shut down.
const stopTimeout = 10 * time.Second

// Registry owns component lifecycle with deterministic ordering: StartAll
// walks components in registration order, StopAll in reverse, so a server
// never comes up before its cache and never outlives it on the way down.
type Registry struct {
	mu      sync.RWMutex
	ordered []Component
	byName  map[string]Component
	started int // components at indexes [0, started) are running
	log     *logger.Logger
}

// NewRegistry creates a new component registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Component),
		log:    logger.Get("component"),
	}
}

// Register adds a component. Register dependencies first; start order is
// registration order.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.ordered = append(r.ordered, c)
	r.byName[name] = c
	return nil
}

// StartAll starts every component in registration order. The first start
// failure aborts the sequence; components that already came up stay running
// so the caller can StopAll them.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := r.started; i < len(r.ordered); i++ {
		c := r.ordered[i]
		if err := c.Start(ctx); err != nil {
			r.log.Error("component start failed", map[string]interface{}{
				logger.FieldComponent: c.Name(),
				logger.FieldError:     err.Error(),
			})
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}
		r.started = i + 1
		r.log.Debug("component started", map[string]interface{}{
			logger.FieldComponent: c.Name(),
		})
	}
	return nil
}

// StopAll stops the running components in reverse start order. Every one
// gets a bounded stop attempt even when an earlier stop fails; the errors
// are joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := r.started - 1; i >= 0; i-- {
		c := r.ordered[i]
		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		err := c.Stop(stopCtx)
		cancel()

		if err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", c.Name(), err))
			r.log.Error("component stop failed", map[string]interface{}{
				logger.FieldComponent: c.Name(),
				logger.FieldError:     err.Error(),
			})
			continue
		}
		r.log.Debug("component stopped", map[string]interface{}{
			logger.FieldComponent: c.Name(),
		})
	}
	r.started = 0
	return errors.Join(errs...)
}

// HealthAll collects health from every registered component, running or not.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.ordered))
	for _, c := range r.ordered {
		results = append(results, c.Health(ctx))
	}
	return results
}

// Get returns a registered component by name, or nil if not found.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}
