// Package provider defines the descriptor model and the hot-swappable
// registry the failover dispatcher draws its candidates from.
//
// A Descriptor binds a provider name to the capabilities it serves, its
// priority within each capability, the policies the dispatcher applies
// around every call (timeout, rate limit, circuit breaker), and the Invoker
// that executes calls against the vendor.
//
// The Registry is copy-on-write: every mutation rebuilds an immutable view
// and swaps it in atomically, so a dispatch already iterating a candidate
// list keeps the snapshot it captured while the next dispatch sees the new
// state. Candidates are ordered by ascending priority, ties broken by
// registration order, which keeps failover sequences reproducible.
//
// Vendor packages (fmp, yahoo, openai, anthropic) register a Factory from
// init(); importing a vendor package makes its kind buildable from
// configuration:
//
//	import _ "github.com/quantfold/finkit/marketdata/fmp"
//
//	desc, err := provider.Build("fmp", cfg)
//	err = registry.Register(desc)
package provider
