package redis

import (
	"fmt"
	"time"
)

// Config holds Redis connection configuration.
type Config struct {
	// Addr is the Redis server address (host:port).
	Addr string `mapstructure:"addr"`

	// Password is the Redis server password.
	Password string `mapstructure:"password"`

	// DB is the Redis database number.
	DB int `mapstructure:"db"`

	// KeyPrefix namespaces every key written through this client's stores.
	KeyPrefix string `mapstructure:"key_prefix"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size"`

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int `mapstructure:"min_idle_conns"`

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int `mapstructure:"max_retries"`

	// DialTimeout bounds establishing new connections.
	DialTimeout time.Duration `mapstructure:"dial_timeout"`

	// ReadTimeout bounds socket reads.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout bounds socket writes.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "finkit"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be > 0")
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("redis timeouts must not be negative")
	}
	return nil
}
