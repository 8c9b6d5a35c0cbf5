package httpclient

import (
	"fmt"
	"time"

	"github.com/quantfold/finkit/resilience"
)

const defaultTimeout = 30 * time.Second

// Config configures the HTTP client. One client is built per provider
// descriptor, so BaseURL and Auth describe a single upstream vendor.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth is the credential applied to every request unless the request
	// carries its own AuthConfig.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures bounded retry of transient failures. Nil disables
	// retry. Vendor adapters use this for connection-level flakiness; the
	// dispatcher never retries through it.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return nil
}

// DefaultRetryConfig returns a retry config suitable for HTTP clients:
// bounded attempts, jittered backoff, retrying only classified-retryable
// failures.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
