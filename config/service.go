package config

import (
	"fmt"
	"time"

	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/redis"
	"github.com/quantfold/finkit/validation"
)

// Config is the full service configuration tree. Load fills it from
// config.yml, FINKIT_-prefixed environment variables and an optional .env
// file; ApplyDefaults and Validate make it usable.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Log       logger.Config   `yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Dispatch  DispatchConfig  `yaml:"dispatch" mapstructure:"dispatch"`

	// Providers lists the upstream providers in no particular order; the
	// registry orders candidates by their Priority.
	Providers []ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// TelemetryConfig configures the OpenTelemetry exporters.
type TelemetryConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// DefaultDeadline bounds a dispatch when the caller sends no
	// X-Request-Deadline-Ms header.
	DefaultDeadline time.Duration `yaml:"default_deadline" mapstructure:"default_deadline"`
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Backend selects the store implementation: "memory" or "redis".
	Backend string       `yaml:"backend" mapstructure:"backend"`
	Redis   redis.Config `yaml:"redis" mapstructure:"redis"`
	// TTL maps operation classes (capability names) to entry lifetimes.
	// Classes absent from the map use the built-in table.
	TTL             map[string]time.Duration `yaml:"ttl" mapstructure:"ttl"`
	JanitorInterval time.Duration            `yaml:"janitor_interval" mapstructure:"janitor_interval"`
	Warmer          WarmerConfig             `yaml:"warmer" mapstructure:"warmer"`
}

// WarmerConfig configures background priming of popular symbols.
type WarmerConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	Symbols  []string      `yaml:"symbols" mapstructure:"symbols"`
}

// DispatchConfig configures the dispatcher and the health probe loop.
type DispatchConfig struct {
	// ProbeScanInterval is how often the monitor scans for providers due a
	// liveness probe.
	ProbeScanInterval time.Duration `yaml:"probe_scan_interval" mapstructure:"probe_scan_interval"`
}

// RateConfig is a provider's token-bucket quota.
type RateConfig struct {
	PerSecond float64 `yaml:"per_second" mapstructure:"per_second"`
	Burst     int     `yaml:"burst" mapstructure:"burst"`
}

// BreakerConfig is a provider's circuit-breaker policy.
type BreakerConfig struct {
	Threshold   int           `yaml:"threshold" mapstructure:"threshold"`
	Window      time.Duration `yaml:"window" mapstructure:"window"`
	BaseBackoff time.Duration `yaml:"base_backoff" mapstructure:"base_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
}

// ProviderConfig describes one upstream provider. Type selects the vendor
// factory; the remaining fields parameterize the descriptor it builds.
type ProviderConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Type     string `yaml:"type" mapstructure:"type"`
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Priority int    `yaml:"priority" mapstructure:"priority"`

	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Capabilities overrides the vendor's default capability set when set.
	Capabilities []string `yaml:"capabilities" mapstructure:"capabilities"`

	Rate          RateConfig    `yaml:"rate" mapstructure:"rate"`
	Breaker       BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
	ProbeInterval time.Duration `yaml:"probe_interval" mapstructure:"probe_interval"`

	// AI-vendor knobs; market-data factories ignore them. Temperature is a
	// pointer so a configured 0 (greedy decoding) survives to the vendor
	// instead of reading as unset.
	Model       string   `yaml:"model" mapstructure:"model"`
	Temperature *float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int      `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ApplyDefaults fills zero-valued fields across the whole tree.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "finkit"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Log.ApplyDefaults()

	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.Interval <= 0 {
		c.Telemetry.Interval = 15 * time.Second
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.DefaultDeadline <= 0 {
		c.Server.DefaultDeadline = 5 * time.Second
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	c.Cache.Redis.ApplyDefaults()
	if c.Cache.JanitorInterval <= 0 {
		c.Cache.JanitorInterval = time.Minute
	}
	if c.Cache.Warmer.Interval <= 0 {
		c.Cache.Warmer.Interval = 5 * time.Minute
	}
	if len(c.Cache.Warmer.Symbols) == 0 {
		c.Cache.Warmer.Symbols = []string{
			"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA",
			"NVDA", "META", "NFLX", "BTC-USD", "ETH-USD",
		}
	}

	if c.Dispatch.ProbeScanInterval <= 0 {
		c.Dispatch.ProbeScanInterval = 30 * time.Second
	}

	for i := range c.Providers {
		c.Providers[i].applyDefaults()
	}
}

func (p *ProviderConfig) applyDefaults() {
	if p.Name == "" {
		p.Name = p.Type
	}
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}
	if p.Breaker.Threshold <= 0 {
		p.Breaker.Threshold = 5
	}
	if p.Breaker.Window <= 0 {
		p.Breaker.Window = time.Minute
	}
	if p.Breaker.BaseBackoff <= 0 {
		p.Breaker.BaseBackoff = time.Second
	}
	if p.Breaker.MaxBackoff <= 0 {
		p.Breaker.MaxBackoff = time.Minute
	}
	if p.ProbeInterval <= 0 {
		p.ProbeInterval = 5 * time.Minute
	}
}

// Validate checks the tree for values that cannot be defaulted away.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Cache.Backend == "redis" {
		if err := c.Cache.Redis.Validate(); err != nil {
			return fmt.Errorf("cache.redis: %w", err)
		}
	}

	v := validation.New()
	v.OneOf("environment", c.Environment, []string{"development", "staging", "production"})
	v.OneOf("cache.backend", c.Cache.Backend, []string{"memory", "redis"})

	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		field := fmt.Sprintf("providers[%d]", i)
		v.Required(field+".type", p.Type)
		v.Custom(!seen[p.Name], field+".name", fmt.Sprintf("duplicate provider name %q", p.Name))
		seen[p.Name] = true
		v.Custom(p.Rate.PerSecond >= 0, field+".rate.per_second", "must not be negative")
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
