package provider

import (
	"github.com/quantfold/finkit/config"
)

// FromConfig runs the vendor factory for the entry's type, then overlays the
// typed policy knobs on top of the vendor defaults. Zero-valued knobs leave
// the vendor's choice in place. Startup registration and admin hot-swap both
// build descriptors here, so a swap body honors the same policy fields as a
// config file entry.
func FromConfig(pc config.ProviderConfig) (Descriptor, error) {
	fc := map[string]any{"name": pc.Name}
	if pc.BaseURL != "" {
		fc["base_url"] = pc.BaseURL
	}
	if pc.APIKey != "" {
		fc["api_key"] = pc.APIKey
	}
	if pc.Model != "" {
		fc["model"] = pc.Model
	}
	if pc.Temperature != nil {
		fc["temperature"] = *pc.Temperature
	}
	if pc.MaxTokens > 0 {
		fc["max_tokens"] = pc.MaxTokens
	}

	desc, err := Build(pc.Type, fc)
	if err != nil {
		return Descriptor{}, err
	}

	if pc.Priority > 0 {
		desc.Priority = pc.Priority
	}
	if pc.Timeout > 0 {
		desc.Timeout = pc.Timeout
	}
	if len(pc.Capabilities) > 0 {
		caps := make([]Capability, len(pc.Capabilities))
		for i, c := range pc.Capabilities {
			caps[i] = Capability(c)
		}
		desc.Capabilities = caps
	}
	if pc.Rate.PerSecond > 0 {
		desc.RateLimit = RatePolicy{
			PerSecond: pc.Rate.PerSecond,
			Burst:     pc.Rate.Burst,
		}
	}
	if pc.Breaker.Threshold > 0 {
		desc.Breaker = BreakerPolicy{
			MaxFailures: pc.Breaker.Threshold,
			Window:      pc.Breaker.Window,
			BaseBackoff: pc.Breaker.BaseBackoff,
			MaxBackoff:  pc.Breaker.MaxBackoff,
		}
	}
	if pc.ProbeInterval > 0 {
		desc.ProbeInterval = pc.ProbeInterval
	}
	return desc, nil
}
