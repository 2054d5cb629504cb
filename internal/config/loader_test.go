package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 100, cfg.Gateway.RateLimitCalls)
	require.Equal(t, time.Minute, cfg.Gateway.RateLimitPeriod)
	require.Equal(t, time.Hour, cfg.Gateway.CacheTTL)
	require.Equal(t, 1000, cfg.Gateway.CacheSize)
	require.True(t, cfg.Gateway.UseCache)
	require.Equal(t, 3, cfg.Gateway.MaxRetries)
	require.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	require.Equal(t, "https://api.anitabi.cn/bangumi", cfg.Gateway.Anitabi.BaseURL)
	require.Equal(t, 30, cfg.Gateway.Anitabi.RateLimitCalls)
	require.Equal(t, "https://api.bgm.tv", cfg.Gateway.Bangumi.BaseURL)
	require.Equal(t, "memory", cfg.Session.Backend)
	require.Equal(t, time.Hour, cfg.Session.TTL)
	require.Equal(t, 1000, cfg.Session.MaxSessions)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 5.0, cfg.Defaults.RadiusKm)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gateway:
  rate_limit_calls: 20
  cache_ttl: 10m
  anitabi:
    rate_limit_calls: 5
session:
  backend: libsql
  ttl: 30m
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 20, cfg.Gateway.RateLimitCalls)
	require.Equal(t, 10*time.Minute, cfg.Gateway.CacheTTL)
	require.Equal(t, 5, cfg.Gateway.Anitabi.RateLimitCalls)
	require.Equal(t, "libsql", cfg.Session.Backend)
	require.Equal(t, 30*time.Minute, cfg.Session.TTL)
	// Untouched keys keep their defaults.
	require.Equal(t, 3, cfg.Gateway.MaxRetries)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEICHIJUNREI_GATEWAY_MAX_RETRIES", "1")
	t.Setenv("SEICHIJUNREI_GATEWAY_TIMEOUT", "5s")
	t.Setenv("SEICHIJUNREI_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 1, cfg.Gateway.MaxRetries)
	require.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		t.Helper()
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Chdir(t.TempDir())

	cfg := base()
	cfg.Gateway.RateLimitCalls = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Gateway.MaxRetries = -1
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Session.Backend = "redis"
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = 70000
	require.Error(t, cfg.Validate())
}

func TestProviderBucket(t *testing.T) {
	cfg := &Config{
		Gateway: GatewayConfig{
			RateLimitCalls:  100,
			RateLimitPeriod: time.Minute,
			Anitabi:         ProviderConfig{RateLimitCalls: 30},
		},
	}

	calls, period := cfg.ProviderBucket(cfg.Gateway.Anitabi)
	require.Equal(t, 30, calls)
	require.Equal(t, time.Minute, period)

	calls, period = cfg.ProviderBucket(cfg.Gateway.Bangumi)
	require.Equal(t, 100, calls)
	require.Equal(t, time.Minute, period)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Gateway.RateLimitCalls)
	require.Equal(t, 30, cfg.Gateway.Anitabi.RateLimitCalls)

	// A second write must not clobber the file.
	require.Error(t, WriteDefault(path))
}
