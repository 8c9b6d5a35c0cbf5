package provider

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/logger"
)

// Registry holds the providers registered for each capability and hands the
// dispatcher ordered candidate snapshots.
//
// The registry is copy-on-write: mutations rebuild an immutable view under a
// mutex and publish it with an atomic pointer swap. Readers never lock, and
// a dispatch already holding a candidate list keeps the snapshot it captured
// while the swap takes effect for the next dispatch.
type Registry struct {
	mu   sync.Mutex // serializes mutations
	view atomic.Pointer[registryView]
	seq  uint64 // registration order, breaks priority ties
	log  *logger.Logger
}

// registryView is an immutable snapshot of the registered providers.
type registryView struct {
	entries    map[string]*registryEntry
	candidates map[Capability][]*registryEntry // sorted by (priority, registration)
}

type registryEntry struct {
	desc Descriptor
	seq  uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{log: logger.Get("provider")}
	r.view.Store(&registryView{
		entries:    map[string]*registryEntry{},
		candidates: map[Capability][]*registryEntry{},
	})
	return r
}

// Register inserts the descriptor under every capability it serves, keyed by
// name. Registering a name that already exists replaces the old descriptor
// wholesale: the swap is atomic and the replacement keeps the original
// registration slot for tie-breaking, so a hot swap does not reshuffle
// equal-priority peers.
func (r *Registry) Register(desc Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	desc = desc.clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.copyEntriesLocked()
	seq := r.seq
	if prev, ok := entries[desc.Name]; ok {
		seq = prev.seq
	} else {
		r.seq++
	}
	entries[desc.Name] = &registryEntry{desc: desc, seq: seq}
	r.publishLocked(entries)

	r.log.Info("provider registered", map[string]interface{}{
		logger.FieldProvider: desc.Name,
		"priority":           desc.Priority,
		"capabilities":       capabilityStrings(desc.Capabilities),
	})
	return nil
}

// Unregister removes the named provider from a single capability. The
// provider keeps serving its other capabilities; removing the last one drops
// it entirely.
func (r *Registry) Unregister(capability Capability, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.copyEntriesLocked()
	prev, ok := entries[name]
	if !ok || !prev.desc.HasCapability(capability) {
		return errors.NotFound("provider", name+"/"+string(capability))
	}

	remaining := make([]Capability, 0, len(prev.desc.Capabilities)-1)
	for _, c := range prev.desc.Capabilities {
		if c != capability {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(entries, name)
	} else {
		desc := prev.desc
		desc.Capabilities = remaining
		entries[name] = &registryEntry{desc: desc, seq: prev.seq}
	}
	r.publishLocked(entries)

	r.log.Info("provider unregistered", map[string]interface{}{
		logger.FieldProvider:   name,
		logger.FieldCapability: string(capability),
	})
	return nil
}

// Remove drops the named provider from every capability.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.copyEntriesLocked()
	if _, ok := entries[name]; !ok {
		return errors.NotFound("provider", name)
	}
	delete(entries, name)
	r.publishLocked(entries)

	r.log.Info("provider removed", map[string]interface{}{
		logger.FieldProvider: name,
	})
	return nil
}

// SetPriority changes the named provider's priority and republishes the
// candidate lists. In-flight dispatches keep the ordering they captured.
func (r *Registry) SetPriority(name string, priority int) error {
	if priority < 0 {
		return errors.InvalidInput("priority", "priority must not be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.copyEntriesLocked()
	prev, ok := entries[name]
	if !ok {
		return errors.NotFound("provider", name)
	}
	desc := prev.desc
	desc.Priority = priority
	entries[name] = &registryEntry{desc: desc, seq: prev.seq}
	r.publishLocked(entries)

	r.log.Info("provider priority changed", map[string]interface{}{
		logger.FieldProvider: name,
		"priority":           priority,
	})
	return nil
}

// Candidates returns the providers serving a capability ordered by ascending
// priority, ties broken by registration order. The returned slice is a
// snapshot: later mutations do not affect it. Fails with UnknownCapability
// when nothing serves the capability.
func (r *Registry) Candidates(capability Capability) ([]Descriptor, error) {
	view := r.view.Load()
	list := view.candidates[capability]
	if len(list) == 0 {
		return nil, errors.UnknownCapability(string(capability))
	}
	out := make([]Descriptor, len(list))
	for i, e := range list {
		out[i] = e.desc
	}
	return out, nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	view := r.view.Load()
	e, ok := view.entries[name]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc, true
}

// Names returns all registered provider names, sorted.
func (r *Registry) Names() []string {
	view := r.view.Load()
	names := make([]string, 0, len(view.entries))
	for name := range view.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capabilities returns every capability with at least one provider, sorted.
func (r *Registry) Capabilities() []Capability {
	view := r.view.Load()
	caps := make([]Capability, 0, len(view.candidates))
	for c := range view.candidates {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.view.Load().entries)
}

// copyEntriesLocked clones the current entry map for mutation. Callers must
// hold mu.
func (r *Registry) copyEntriesLocked() map[string]*registryEntry {
	old := r.view.Load().entries
	entries := make(map[string]*registryEntry, len(old)+1)
	for k, v := range old {
		entries[k] = v
	}
	return entries
}

// publishLocked rebuilds the per-capability candidate lists and swaps the
// new view in. Callers must hold mu.
func (r *Registry) publishLocked(entries map[string]*registryEntry) {
	candidates := make(map[Capability][]*registryEntry)
	for _, e := range entries {
		for _, c := range e.desc.Capabilities {
			candidates[c] = append(candidates[c], e)
		}
	}
	for _, list := range candidates {
		sort.Slice(list, func(i, j int) bool {
			if list[i].desc.Priority != list[j].desc.Priority {
				return list[i].desc.Priority < list[j].desc.Priority
			}
			return list[i].seq < list[j].seq
		})
	}
	r.view.Store(&registryView{entries: entries, candidates: candidates})
}

func capabilityStrings(caps []Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}
