package component

import "context"

// Component represents a lifecycle-managed infrastructure piece (cache
// store, probe loop, warmer, HTTP server). The bootstrap runtime starts
// components in registration order and stops them in reverse.
type Component interface {
	// Name returns the unique name used for registration and health reports.
	Name() string

	// Start brings the component up. A returned error aborts the boot
	// sequence.
	Start(ctx context.Context) error

	// Stop shuts the component down and releases its resources.
	Stop(ctx context.Context) error

	// Health reports the component's current condition.
	Health(ctx context.Context) Health
}

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's entry in the readiness report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}
