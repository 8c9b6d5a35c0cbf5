package provider

import (
	"testing"
	"time"

	"github.com/quantfold/finkit/config"
)

func init() {
	RegisterFactory("policy-stub", func(cfg map[string]any) (Descriptor, error) {
		name, _ := cfg["name"].(string)
		if name == "" {
			name = "policy-stub"
		}
		return Descriptor{
			Name:         name,
			Capabilities: []Capability{"quote"},
			Priority:     10,
			Timeout:      5 * time.Second,
			Invoker:      stubInvoker(name),
		}, nil
	})
}

func TestFromConfigOverlaysPolicyKnobs(t *testing.T) {
	pc := config.ProviderConfig{
		Name:         "tuned",
		Type:         "policy-stub",
		Enabled:      true,
		Priority:     3,
		Timeout:      2 * time.Second,
		Capabilities: []string{"quote", "search"},
		Rate:         config.RateConfig{PerSecond: 7, Burst: 14},
		Breaker: config.BreakerConfig{
			Threshold:   9,
			Window:      time.Minute,
			BaseBackoff: time.Second,
			MaxBackoff:  30 * time.Second,
		},
		ProbeInterval: time.Minute,
	}

	desc, err := FromConfig(pc)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	if desc.Priority != 3 {
		t.Errorf("Priority = %d, want 3", desc.Priority)
	}
	if desc.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", desc.Timeout)
	}
	if len(desc.Capabilities) != 2 || desc.Capabilities[1] != "search" {
		t.Errorf("Capabilities = %v, want [quote search]", desc.Capabilities)
	}
	if desc.RateLimit.PerSecond != 7 || desc.RateLimit.Burst != 14 {
		t.Errorf("RateLimit = %+v, want 7/s burst 14", desc.RateLimit)
	}
	if desc.Breaker.MaxFailures != 9 {
		t.Errorf("Breaker.MaxFailures = %d, want 9", desc.Breaker.MaxFailures)
	}
	if desc.ProbeInterval != time.Minute {
		t.Errorf("ProbeInterval = %v, want 1m", desc.ProbeInterval)
	}
}

func TestFromConfigKeepsVendorDefaults(t *testing.T) {
	desc, err := FromConfig(config.ProviderConfig{
		Name: "plain", Type: "policy-stub", Enabled: true,
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if desc.Priority != 10 {
		t.Errorf("Priority = %d, want vendor default 10", desc.Priority)
	}
	if desc.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want vendor default 5s", desc.Timeout)
	}
}

func TestFromConfigPassesZeroTemperature(t *testing.T) {
	var gotCfg map[string]any
	RegisterFactory("temp-stub", func(cfg map[string]any) (Descriptor, error) {
		gotCfg = cfg
		return Descriptor{
			Name:         "temp-stub",
			Capabilities: []Capability{"analyze"},
			Invoker:      stubInvoker("temp-stub"),
		}, nil
	})

	zero := 0.0
	if _, err := FromConfig(config.ProviderConfig{
		Name: "greedy", Type: "temp-stub", Temperature: &zero,
	}); err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if temp, ok := gotCfg["temperature"].(float64); !ok || temp != 0 {
		t.Errorf("factory temperature = %v (present=%v), want explicit 0", gotCfg["temperature"], ok)
	}

	gotCfg = nil
	if _, err := FromConfig(config.ProviderConfig{
		Name: "default", Type: "temp-stub",
	}); err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if _, present := gotCfg["temperature"]; present {
		t.Errorf("unset temperature reached the factory as %v", gotCfg["temperature"])
	}
}
