package redis

import (
	"context"
	"fmt"

	"github.com/quantfold/finkit/component"
	"github.com/quantfold/finkit/logger"
)

// Component gives the cache layer a lifecycle: the registry dials Redis on
// StartAll, probes it for readiness, and closes the pool on StopAll.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent defers client construction until Start so a bad Redis address
// fails the boot sequence instead of the constructor.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// NewComponentWithClient adopts an already constructed client. Start only
// verifies connectivity; Stop still closes the client.
func NewComponentWithClient(client *Client, log *logger.Logger) *Component {
	return &Component{
		client: client,
		log:    log.WithComponent("redis"),
	}
}

// Client returns the underlying *Client, or nil before Start.
func (c *Component) Client() *Client {
	return c.client
}

func (c *Component) Name() string { return "redis" }

// Start builds the client if one was not injected and pings the server.
func (c *Component) Start(ctx context.Context) error {
	if c.client == nil {
		client, err := New(c.cfg, c.log)
		if err != nil {
			return fmt.Errorf("redis start: %w", err)
		}
		c.client = client
	}

	if err := c.client.Ping(ctx); err != nil {
		return fmt.Errorf("redis start ping: %w", err)
	}

	c.log.Info("Redis component started")
	return nil
}

// Stop closes the connection pool. Safe to call when Start never ran.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	c.log.Info("Redis component stopping")
	return c.client.Close()
}

// Health pings Redis so readiness probes notice a dropped connection.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "redis not initialized"
	default:
		if err := c.client.Ping(ctx); err != nil {
			h.Status = component.StatusUnhealthy
			h.Message = fmt.Sprintf("ping failed: %v", err)
		}
	}
	return h
}
