// Package component defines the lifecycle contract for the service's
// long-running pieces.
//
// Components represent services that require startup, shutdown and health
// monitoring (the cache janitor, the health probe loop, the cache warmer,
// the HTTP server). They are registered with the bootstrap package, which
// starts them in dependency order and stops them in reverse.
package component
