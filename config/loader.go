package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file operations so the loader is testable without
// touching the real working directory.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// configSearchPaths are tried in order when no explicit config file is given.
var configSearchPaths = []string{
	"./config.yml",
	"./config.yaml",
	"./config/config.yml",
	"./config/config.yaml",
}

// envSearchPaths are tried in order when no explicit .env file is given.
var envSearchPaths = []string{
	"./.env",
	"./config/.env",
}

// LoaderConfig holds the loader's dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads configuration into cfg from, in increasing precedence, the
// config file, the process environment, and a .env file. Missing files are
// not errors; every knob has a default and secrets usually arrive through
// the environment.
func Load(cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = firstExisting(lc.FileSystem, configSearchPaths)
	}
	envFile := lc.EnvFile
	if envFile == "" {
		envFile = firstExisting(lc.FileSystem, envSearchPaths)
	}

	v := viper.New()

	if configFile != "" && lc.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		// Re-bind to pick up variables the .env file introduced.
		bindEnvVars(v)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, path := range paths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// envPrefix scopes which environment variables the loader considers.
const envPrefix = "FINKIT_"

// bindEnvVars maps FINKIT_-prefixed environment variables onto nested viper
// keys by generating every plausible nesting of the underscore-separated
// name, so FINKIT_CACHE_REDIS_ADDR reaches cache.redis.addr without a
// per-key bind list.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], envPrefix) {
			continue
		}

		key := strings.TrimPrefix(pair[0], envPrefix)
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants lists the nested key shapes an underscore-separated
// environment name could address.
//
//	CACHE_REDIS_KEY_PREFIX -> [cache_redis_key_prefix, cache.redis.key.prefix,
//	                           cache.redis_key_prefix, cache.redis.key_prefix, ...]
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}
	for i := 2; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
