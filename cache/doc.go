// Package cache memoizes completed dispatches for a short, operation-class
// dependent TTL. Keys are derived from the capability and the canonicalized
// request parameters only — never from the provider that answered — so a
// failover from one provider to another keeps serving the same cache line.
// The provider's identity is stored inside the entry for observability.
//
// Two backends implement Store: an in-process map with a janitor goroutine,
// and a Redis-backed store for deployments that share the cache across
// replicas. Backend errors are counted and treated as misses; a broken cache
// never fails a dispatch.
package cache
