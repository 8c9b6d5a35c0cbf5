// Package health tracks per-provider availability for the failover
// dispatcher.
//
// Every provider gets a Tracker bundling its circuit breaker with call
// bookkeeping: last success/failure timestamps, total counters, and an
// exponentially weighted average latency. The dispatcher asks the tracker
// whether a call may proceed and reports the outcome afterwards; rate-limit
// denials are never reported, so legitimate throttling cannot trip a
// breaker.
//
// The Monitor owns the trackers, creating them lazily on first reference;
// they live for the process lifetime so a hot-swapped provider inherits the
// health history of the slot it replaces. Run starts the background probe
// loop, which uses a provider's optional Probe method to claim the half-open
// trial during idle periods so recovery does not wait for live traffic.
package health
