package bootstrap

import (
	"fmt"

	"github.com/quantfold/finkit/config"
	"github.com/quantfold/finkit/provider"

	// Vendor drivers register their factories on import.
	_ "github.com/quantfold/finkit/insight/anthropic"
	_ "github.com/quantfold/finkit/insight/openai"
	_ "github.com/quantfold/finkit/marketdata/fmp"
	_ "github.com/quantfold/finkit/marketdata/yahoo"
)

// registerProviders builds a descriptor for every enabled entry and
// registers it. Disabled entries are skipped silently. Descriptor
// construction itself lives in provider.FromConfig, shared with the admin
// hot-swap surface.
func registerProviders(reg *provider.Registry, entries []config.ProviderConfig) error {
	for _, pc := range entries {
		if !pc.Enabled {
			continue
		}
		desc, err := provider.FromConfig(pc)
		if err != nil {
			return fmt.Errorf("provider %q: %w", pc.Name, err)
		}
		if err := reg.Register(desc); err != nil {
			return fmt.Errorf("provider %q: %w", pc.Name, err)
		}
	}
	return nil
}
