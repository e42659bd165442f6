package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("Expected memory cache backend, got '%s'", cfg.CacheBackend)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("Expected 3s fetch timeout, got %s", cfg.FetchTimeout)
	}
	if cfg.PartialTTL != 120*time.Second {
		t.Errorf("Expected 120s partial TTL, got %s", cfg.PartialTTL)
	}
	if cfg.FullTTL != 600*time.Second {
		t.Errorf("Expected 600s full TTL, got %s", cfg.FullTTL)
	}
	if cfg.RefreshInterval != 120*time.Second {
		t.Errorf("Expected 120s refresh interval, got %s", cfg.RefreshInterval)
	}
	if cfg.BiasWeights != "default" {
		t.Errorf("Expected default bias weights, got '%s'", cfg.BiasWeights)
	}
	if cfg.ContentAnalyzer != "off" {
		t.Errorf("Expected content analyzer off, got '%s'", cfg.ContentAnalyzer)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"--port", "9090",
		"--cache-backend", "sqlite",
		"--sqlite-path", "/tmp/test.db",
		"--fetch-timeout", "1500",
		"--content-analyzer", "detailed",
		"--cron-secret", "s3cret",
		"--environment", "production",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.CacheBackend != "sqlite" || cfg.SQLitePath != "/tmp/test.db" {
		t.Errorf("Expected sqlite at /tmp/test.db, got %s at %s", cfg.CacheBackend, cfg.SQLitePath)
	}
	if cfg.FetchTimeout != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s fetch timeout, got %s", cfg.FetchTimeout)
	}
	if cfg.ContentAnalyzer != "detailed" {
		t.Errorf("Expected detailed analyzer, got '%s'", cfg.ContentAnalyzer)
	}
	if !cfg.Debug {
		t.Error("Expected debug enabled")
	}
	if !cfg.RequireCronSecret() {
		t.Error("Expected cron secret to be required in production")
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Parse([]string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.CacheBackend != "redis" || cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
		t.Errorf("Expected redis settings from env, got %s %s %d", cfg.CacheBackend, cfg.RedisAddr, cfg.RedisDB)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := [][]string{
		{"--cache-backend", "memcached"},
		{"--bias-weights", "extreme"},
		{"--fetch-timeout", "0"},
		{"--worker-count", "0"},
		{"--full-ttl", "-1"},
	}

	for _, args := range tests {
		if _, err := Parse(args); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}

func TestRequireCronSecret(t *testing.T) {
	tests := []struct {
		secret, env string
		want        bool
	}{
		{"s3cret", "production", true},
		{"s3cret", "development", false},
		{"", "production", false},
	}

	for _, tt := range tests {
		cfg := &Cfg{CronSecret: tt.secret, Environment: tt.env}
		if got := cfg.RequireCronSecret(); got != tt.want {
			t.Errorf("RequireCronSecret(%q, %q): expected %v, got %v", tt.secret, tt.env, tt.want, got)
		}
	}
}

func TestGetPanicsBeforeLoad(t *testing.T) {
	saved := globalCfg
	globalCfg = nil
	defer func() {
		globalCfg = saved
		if recover() == nil {
			t.Error("Expected panic when configuration is not loaded")
		}
	}()

	Get()
}
