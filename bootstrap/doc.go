// Package bootstrap assembles the service from configuration.
//
// Build wires the full pipeline in dependency order and returns a Runtime
// whose components have not started yet:
//
//	rt, err := bootstrap.Build(cfg)
//	if err != nil {
//	    return err
//	}
//	return rt.Run(context.Background())
//
// Run starts every component, blocks until the context ends or a
// termination signal arrives, and shuts down with a bounded grace period.
// Callers that manage their own lifecycle can use Start and Shutdown
// directly.
package bootstrap
