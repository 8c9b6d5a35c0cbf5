package bootstrap

import (
	"context"
	"sync"

	"github.com/quantfold/finkit/component"
)

// loop adapts a blocking run function to component.Component. Start launches
// the function on a goroutine bound to an internal context; Stop cancels it
// and waits for the function to return.
type loop struct {
	name string
	run  func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newLoop(name string, run func(ctx context.Context)) *loop {
	return &loop{name: name, run: run}
}

var _ component.Component = (*loop)(nil)

func (l *loop) Name() string { return l.name }

func (l *loop) Start(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer close(done)
		l.run(runCtx)
	}()
	return nil
}

func (l *loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *loop) Health(_ context.Context) component.Health {
	l.mu.Lock()
	running := l.cancel != nil
	l.mu.Unlock()

	h := component.Health{Name: l.name, Status: component.StatusHealthy}
	if !running {
		h.Status = component.StatusUnhealthy
		h.Message = "not running"
	}
	return h
}
