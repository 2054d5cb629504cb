// Package config provides layered configuration for seichijunrei:
// built-in defaults, an optional YAML file, and SEICHIJUNREI_ environment
// variables, with a local .env file loaded first.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SEICHIJUNREI"

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// Default upstream tuning. Anitabi asks integrators to stay under 30
// requests per minute; Bangumi tolerates the general limit.
const (
	defaultRateLimitCalls = 100
	defaultAnitabiCalls   = 30
)

func defaults() map[string]any {
	return map[string]any{
		"gateway.rate_limit_calls":          defaultRateLimitCalls,
		"gateway.rate_limit_period":         "60s",
		"gateway.cache_ttl":                 "1h",
		"gateway.cache_size":                1000,
		"gateway.use_cache":                 true,
		"gateway.max_retries":               3,
		"gateway.timeout":                   "30s",
		"gateway.user_agent":                "Seichijunrei/1.0",
		"gateway.anitabi.base_url":          "https://api.anitabi.cn/bangumi",
		"gateway.anitabi.rate_limit_calls":  defaultAnitabiCalls,
		"gateway.anitabi.rate_limit_period": "60s",
		"gateway.bangumi.base_url":          "https://api.bgm.tv",
		"session.backend":                   "memory",
		"session.ttl":                       "1h",
		"session.max_sessions":              1000,
		"session.cleanup_interval":          "5m",
		"store.driver":                      "libsql",
		"store.path":                        "",
		"server.host":                       "0.0.0.0",
		"server.port":                       8080,
		"server.read_timeout":               "15s",
		"server.write_timeout":              "30s",
		"server.idle_timeout":               "60s",
		"server.shutdown_timeout":           "10s",
		"logging.level":                     "info",
		"logging.format":                    "console",
		"metrics.enabled":                   true,
		"defaults.radius_km":                5.0,
		"defaults.max_results":              10,
	}
}

// Load reads configuration. path may name a YAML file; empty means the
// standard locations (./config.yaml, ~/.config/seichijunrei/config.yaml)
// are tried and silently skipped when absent.
func Load(path string) (*Config, error) {
	// .env values become process env before viper reads it, matching
	// how the service is deployed alongside a dotenv file.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "seichijunrei"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects settings the gateway cannot run with.
func (c *Config) Validate() error {
	if c.Gateway.RateLimitCalls <= 0 {
		return errors.New("gateway.rate_limit_calls must be positive")
	}
	if c.Gateway.RateLimitPeriod <= 0 {
		return errors.New("gateway.rate_limit_period must be positive")
	}
	if c.Gateway.MaxRetries < 0 {
		return errors.New("gateway.max_retries must not be negative")
	}
	if c.Gateway.Timeout <= 0 {
		return errors.New("gateway.timeout must be positive")
	}
	if c.Gateway.CacheTTL <= 0 {
		return errors.New("gateway.cache_ttl must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Session.MaxSessions <= 0 {
		return errors.New("session.max_sessions must be positive")
	}
	switch c.Session.Backend {
	case "memory", "libsql":
	default:
		return fmt.Errorf("unsupported session backend: %s", c.Session.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Defaults.RadiusKm <= 0 {
		return errors.New("defaults.radius_km must be positive")
	}
	return nil
}

// ProviderBucket resolves the effective rate-limit settings for one
// provider, falling back to the gateway-level values.
func (c *Config) ProviderBucket(p ProviderConfig) (calls int, period time.Duration) {
	calls = c.Gateway.RateLimitCalls
	period = c.Gateway.RateLimitPeriod
	if p.RateLimitCalls > 0 {
		calls = p.RateLimitCalls
	}
	if p.RateLimitPeriod > 0 {
		period = p.RateLimitPeriod
	}
	return calls, period
}

// Get returns the last loaded configuration, or nil before Load.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

const defaultYAML = `gateway:
  rate_limit_calls: 100
  rate_limit_period: 60s
  cache_ttl: 1h
  cache_size: 1000
  use_cache: true
  max_retries: 3
  timeout: 30s
  user_agent: Seichijunrei/1.0
  anitabi:
    base_url: https://api.anitabi.cn/bangumi
    rate_limit_calls: 30
    rate_limit_period: 60s
  bangumi:
    base_url: https://api.bgm.tv
session:
  backend: memory
  ttl: 1h
  max_sessions: 1000
  cleanup_interval: 5m
store:
  driver: libsql
  path: ""
server:
  host: 0.0.0.0
  port: 8080
  read_timeout: 15s
  write_timeout: 30s
  idle_timeout: 60s
  shutdown_timeout: 10s
logging:
  level: info
  format: console
metrics:
  enabled: true
defaults:
  radius_km: 5.0
  max_results: 10
`

// WriteDefault writes the default configuration as YAML to path.
// Existing files are left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	var probe map[string]any
	if err := yaml.Unmarshal([]byte(defaultYAML), &probe); err != nil {
		return fmt.Errorf("default config is not valid yaml: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, []byte(defaultYAML), 0o644)
}
