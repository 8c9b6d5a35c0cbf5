package logger

import (
	"fmt"
	"slices"
)

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	validFormats = []string{"json", "console"}
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults fills zero values: info-level console output on stdout.
// Timestamps are always on; log lines without them are useless in incident
// review.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate checks level and format against the supported sets.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("log.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("log.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}
