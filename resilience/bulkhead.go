package resilience

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBulkheadFull is returned when every slot is taken and MaxWait is zero.
	ErrBulkheadFull = errors.New("bulkhead is full")
	// ErrBulkheadTimeout is returned when no slot freed up within MaxWait.
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies this bulkhead for metrics/logging.
	Name string
	// MaxConcurrent is the maximum number of in-flight calls.
	MaxConcurrent int
	// MaxWait is how long to wait for a slot. Zero fails immediately.
	MaxWait time.Duration
	// OnReject is called when a call is turned away.
	OnReject func(name string)
}

// DefaultBulkheadConfig returns sensible defaults.
func DefaultBulkheadConfig(name string) BulkheadConfig {
	return BulkheadConfig{
		Name:          name,
		MaxConcurrent: 10,
	}
}

// Bulkhead caps concurrent calls to an upstream so one slow dependency
// cannot absorb every worker. Slots are a buffered channel; a send claims
// one and a receive gives it back.
type Bulkhead struct {
	config BulkheadConfig
	slots  chan struct{}
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}

	return &Bulkhead{
		config: config,
		slots:  make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn inside the bulkhead. Returns ErrBulkheadFull or
// ErrBulkheadTimeout when no slot frees up in time.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name)
		}
		return err
	}
	defer func() { <-b.slots }()

	return fn()
}

// ExecuteWithResult runs a function that returns a value inside the
// bulkhead.
func ExecuteWithResult[T any](b *Bulkhead, ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := b.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int {
	return b.config.MaxConcurrent - len(b.slots)
}

// InUse returns the number of slots currently held.
func (b *Bulkhead) InUse() int {
	return len(b.slots)
}

// MaxConcurrent returns the slot capacity.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}
