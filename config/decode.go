package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeProvider maps a loosely typed provider entry (an admin hot-swap
// body) onto ProviderConfig with the same mapstructure tags and duration
// parsing the file loader uses, so a swapped-in provider accepts exactly
// the fields a config file entry does.
func DecodeProvider(raw map[string]any) (ProviderConfig, error) {
	var pc ProviderConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &pc,
	})
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("provider decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return ProviderConfig{}, fmt.Errorf("decode provider entry: %w", err)
	}
	return pc, nil
}
