package provider

import (
	"sort"
	"sync"

	"github.com/quantfold/finkit/errors"
)

// Factory builds a provider descriptor from vendor-specific configuration.
// The cfg map carries whatever the vendor needs (api_key, base_url, model);
// factories validate it and return a ready-to-register descriptor.
type Factory func(cfg map[string]any) (Descriptor, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// RegisterFactory adds a vendor factory to the global table under the given
// kind. Typically called from init() in vendor driver packages:
//
//	func init() {
//	    provider.RegisterFactory("fmp", New)
//	}
//
// Importing the driver package makes the kind buildable as a side effect.
func RegisterFactory(kind string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[kind] = f
}

// Build constructs a descriptor using the factory registered under kind.
func Build(kind string, cfg map[string]any) (Descriptor, error) {
	factoriesMu.RLock()
	f, ok := factories[kind]
	factoriesMu.RUnlock()
	if !ok {
		return Descriptor{}, errors.NotFound("provider factory", kind)
	}
	return f(cfg)
}

// Kinds returns the registered factory kinds, sorted.
func Kinds() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
