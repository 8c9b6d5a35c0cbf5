// Package dispatch routes logical operations to upstream providers.
//
// A Dispatcher answers each request from the cache when it can, and otherwise
// walks the registry's priority-ordered candidates for the capability. A
// candidate whose local rate window is drained or whose circuit is open is
// skipped without being called. The first admissible candidate is invoked
// under the tighter of its own timeout and the caller's remaining deadline;
// its success is cached and returned, while a failure is normalized, recorded
// against the provider's health tracker, and the walk moves on. When every
// candidate has been skipped or has failed, the dispatch surfaces a single
// exhaustion error carrying the per-provider outcomes in the order they were
// tried.
package dispatch
