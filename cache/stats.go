package cache

import "sync/atomic"

// Stats counts cache traffic. All methods are safe for concurrent use.
type Stats struct {
	hits   atomic.Uint64
	misses atomic.Uint64
	sets   atomic.Uint64
	errors atomic.Uint64
}

// StatsSnapshot is a point-in-time read of the counters.
type StatsSnapshot struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// Snapshot reads the counters. HitRate is hits over lookups; 0 when no
// lookup has happened yet.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Sets:   s.sets.Load(),
		Errors: s.errors.Load(),
	}
	if lookups := snap.Hits + snap.Misses; lookups > 0 {
		snap.HitRate = float64(snap.Hits) / float64(lookups)
	}
	return snap
}
