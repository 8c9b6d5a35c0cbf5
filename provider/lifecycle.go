package provider

import "context"

// Prober is optionally implemented by invokers that support a cheap liveness
// check. The health monitor uses it to probe open circuits without burning a
// real operation.
type Prober interface {
	Probe(ctx context.Context) error
}

// Closeable is optionally implemented by invokers that hold resources
// requiring explicit cleanup (connection pools, background workers). The
// bootstrap runtime calls Close during shutdown.
type Closeable interface {
	Close(ctx context.Context) error
}
