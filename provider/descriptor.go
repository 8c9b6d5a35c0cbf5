package provider

import (
	"time"

	"github.com/quantfold/finkit/errors"
)

// RatePolicy configures a provider's token bucket.
type RatePolicy struct {
	// PerSecond is the sustained request rate. Zero disables rate limiting.
	PerSecond float64 `json:"per_second"`
	// Burst is the bucket capacity. Defaults to PerSecond rounded up when
	// unset.
	Burst int `json:"burst"`
}

// Enabled reports whether the policy imposes any limit.
func (p RatePolicy) Enabled() bool {
	return p.PerSecond > 0
}

// BreakerPolicy configures a provider's circuit breaker.
type BreakerPolicy struct {
	// MaxFailures is the failure count within Window that opens the circuit.
	MaxFailures int `json:"max_failures"`
	// Window bounds how long failures accumulate toward MaxFailures.
	Window time.Duration `json:"window"`
	// BaseBackoff is the first open interval; consecutive opens double it.
	BaseBackoff time.Duration `json:"base_backoff"`
	// MaxBackoff caps the open interval.
	MaxBackoff time.Duration `json:"max_backoff"`
}

// Descriptor describes a registered provider: its identity, the capabilities
// it serves, its position in the failover order, and the per-call policies
// the dispatcher applies. The Invoker is owned by the vendor adapter; the
// descriptor only references it.
type Descriptor struct {
	// Name uniquely identifies the provider within the registry.
	Name string
	// Capabilities lists the logical operations this provider serves.
	Capabilities []Capability
	// Priority orders candidates within a capability; lower is tried first.
	Priority int
	// Timeout bounds a single invocation, further capped by the remaining
	// request deadline. Zero leaves only the request deadline.
	Timeout time.Duration
	// RateLimit is the provider's quota policy.
	RateLimit RatePolicy
	// Breaker is the provider's circuit policy. Zero values fall back to the
	// health monitor defaults.
	Breaker BreakerPolicy
	// ProbeInterval is how often the health monitor may probe this provider
	// while its circuit is open. Zero disables active probing.
	ProbeInterval time.Duration
	// Invoker executes calls against the vendor.
	Invoker Invoker
	// Metadata carries vendor details surfaced by the status endpoint
	// (vendor kind, base URL, model name).
	Metadata map[string]string
}

// HasCapability reports whether the descriptor serves the capability.
func (d Descriptor) HasCapability(c Capability) bool {
	for _, have := range d.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Validate checks that the descriptor is complete enough to register.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.MissingField("name")
	}
	if len(d.Capabilities) == 0 {
		return errors.MissingField("capabilities")
	}
	for _, c := range d.Capabilities {
		if c == "" {
			return errors.InvalidInput("capabilities", "capabilities must not contain empty values")
		}
	}
	if d.Invoker == nil {
		return errors.MissingField("invoker")
	}
	if d.Priority < 0 {
		return errors.InvalidInput("priority", "priority must not be negative")
	}
	return nil
}

// clone returns a copy whose mutable fields no longer alias the caller's,
// so registered descriptors cannot change behind a registry snapshot.
func (d Descriptor) clone() Descriptor {
	cp := d
	cp.Capabilities = append([]Capability(nil), d.Capabilities...)
	if d.Metadata != nil {
		cp.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}
