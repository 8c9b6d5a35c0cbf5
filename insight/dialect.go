package insight

import (
	"fmt"
	"sync"
)

// Dialect maps universal completion types to and from one vendor's HTTP
// format. Each completion vendor (OpenAI, Anthropic, compatible gateways)
// has its own Dialect implementation living in a driver sub-package;
// importing the driver registers it as a side effect.
type Dialect interface {
	// Name returns the dialect identifier (e.g. "openai", "anthropic").
	Name() string

	// ChatPath returns the endpoint path for chat completion.
	ChatPath() string

	// HealthPath returns a cheap liveness endpoint. Empty means the
	// vendor has none and probes are a no-op.
	HealthPath() string

	// BuildRequest maps a universal CompletionRequest to the vendor's
	// JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse maps the vendor's JSON response body to a universal
	// CompletionResponse.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry. Called from
// init() in driver packages.
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name from the global registry.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("insight: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	return names
}
