// Package config loads and validates the service configuration tree.
//
// Values come from config.yml, FINKIT_-prefixed environment variables and
// an optional .env file, in increasing precedence:
//
//	var cfg config.Config
//	err := config.Load(&cfg)
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
//
// The provider list drives the registry at boot and on hot-swap: each entry
// names a vendor factory (fmp, yahoo, openai, anthropic) and the policy
// knobs for the descriptor it builds.
package config
