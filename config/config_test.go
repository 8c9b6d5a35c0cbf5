package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != "finkit" {
		t.Errorf("expected name 'finkit', got %q", cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected environment 'development', got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug=true for development")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.DefaultDeadline != 5*time.Second {
		t.Errorf("expected default deadline 5s, got %v", cfg.Server.DefaultDeadline)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected backend 'memory', got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.JanitorInterval != time.Minute {
		t.Errorf("expected janitor interval 1m, got %v", cfg.Cache.JanitorInterval)
	}
	if len(cfg.Cache.Warmer.Symbols) == 0 {
		t.Error("expected default warmer symbols")
	}
	if cfg.Dispatch.ProbeScanInterval != 30*time.Second {
		t.Errorf("expected probe scan interval 30s, got %v", cfg.Dispatch.ProbeScanInterval)
	}
}

func TestProviderDefaults(t *testing.T) {
	cfg := Config{
		Providers: []ProviderConfig{{Type: "fmp"}},
	}
	cfg.ApplyDefaults()

	p := cfg.Providers[0]
	if p.Name != "fmp" {
		t.Errorf("expected name defaulted to type, got %q", p.Name)
	}
	if p.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", p.Timeout)
	}
	if p.Breaker.Threshold != 5 {
		t.Errorf("expected breaker threshold 5, got %d", p.Breaker.Threshold)
	}
	if p.Breaker.BaseBackoff != time.Second {
		t.Errorf("expected base backoff 1s, got %v", p.Breaker.BaseBackoff)
	}
	if p.Breaker.MaxBackoff != time.Minute {
		t.Errorf("expected max backoff 1m, got %v", p.Breaker.MaxBackoff)
	}
	if p.ProbeInterval != 5*time.Minute {
		t.Errorf("expected probe interval 5m, got %v", p.ProbeInterval)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		errPart string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment: must be one of"},
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"provider missing type", func(c *Config) {
			c.Providers = []ProviderConfig{{Name: "x"}}
		}, "type: is required"},
		{"duplicate provider name", func(c *Config) {
			c.Providers = []ProviderConfig{
				{Name: "fmp", Type: "fmp"},
				{Name: "fmp", Type: "yahoo"},
			}
		}, "duplicate provider name"},
		{"negative rate", func(c *Config) {
			c.Providers = []ProviderConfig{{Name: "fmp", Type: "fmp", Rate: RateConfig{PerSecond: -1}}}
		}, "rate.per_second"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errPart == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("expected error containing %q, got %q", tc.errPart, err.Error())
			}
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: finkit-api
environment: staging
cache:
  backend: redis
  redis:
    addr: "redis:6379"
  ttl:
    quote: 45s
    profile: 2h
providers:
  - name: fmp
    type: fmp
    enabled: true
    priority: 10
    timeout: 8s
    rate:
      per_second: 5
      burst: 10
  - name: yahoo
    type: yahoo
    enabled: true
    priority: 20
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg Config
	if err := Load(&cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "finkit-api" {
		t.Errorf("expected name 'finkit-api', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("expected backend 'redis', got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("expected redis addr 'redis:6379', got %q", cfg.Cache.Redis.Addr)
	}
	if got := cfg.Cache.TTL["quote"]; got != 45*time.Second {
		t.Errorf("expected quote ttl 45s, got %v", got)
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(cfg.Providers))
	}
	if cfg.Providers[0].Timeout != 8*time.Second {
		t.Errorf("expected fmp timeout 8s, got %v", cfg.Providers[0].Timeout)
	}
	if cfg.Providers[0].Rate.Burst != 10 {
		t.Errorf("expected fmp burst 10, got %d", cfg.Providers[0].Rate.Burst)
	}
}

func TestLoadMissingFileSucceeds(t *testing.T) {
	var cfg Config
	fs := &mockFS{}
	if err := Load(&cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("expected Load to succeed with no files, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FINKIT_CACHE_BACKEND", "redis")
	t.Setenv("FINKIT_SERVER_PORT", "9090")

	var cfg Config
	if err := Load(&cfg, WithFileSystem(&mockFS{})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("expected env override backend 'redis', got %q", cfg.Cache.Backend)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected env override port 9090, got %d", cfg.Server.Port)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("CACHE_REDIS_ADDR")

	want := map[string]bool{
		"cache_redis_addr": false,
		"cache.redis.addr": false,
		"cache.redis_addr": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Errorf("expected variant %q in %v", k, variants)
		}
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("unexpected config file %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected env file %q", lc.EnvFile)
	}
}
