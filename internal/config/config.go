package config

import "time"

// Config is the complete application configuration. Values merge three
// layers: built-in defaults, an optional config.yaml, and environment
// variables with the SEICHIJUNREI_ prefix (a local .env file is read
// before the environment).
type Config struct {
	Gateway  GatewayConfig  `mapstructure:"gateway" yaml:"gateway"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
}

// GatewayConfig tunes the resilient upstream client shared by the
// provider catalogs.
type GatewayConfig struct {
	RateLimitCalls  int           `mapstructure:"rate_limit_calls" yaml:"rate_limit_calls"`
	RateLimitPeriod time.Duration `mapstructure:"rate_limit_period" yaml:"rate_limit_period"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	CacheSize       int           `mapstructure:"cache_size" yaml:"cache_size"`
	UseCache        bool          `mapstructure:"use_cache" yaml:"use_cache"`
	MaxRetries      int           `mapstructure:"max_retries" yaml:"max_retries"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent       string        `mapstructure:"user_agent" yaml:"user_agent"`

	Anitabi ProviderConfig `mapstructure:"anitabi" yaml:"anitabi"`
	Bangumi ProviderConfig `mapstructure:"bangumi" yaml:"bangumi"`
}

// ProviderConfig overrides gateway settings for one upstream provider.
// Zero values inherit the gateway-level setting.
type ProviderConfig struct {
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url"`
	RateLimitCalls  int           `mapstructure:"rate_limit_calls" yaml:"rate_limit_calls"`
	RateLimitPeriod time.Duration `mapstructure:"rate_limit_period" yaml:"rate_limit_period"`
	APIKey          string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// SessionConfig tunes the session service.
type SessionConfig struct {
	Backend         string        `mapstructure:"backend" yaml:"backend"`
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl"`
	MaxSessions     int           `mapstructure:"max_sessions" yaml:"max_sessions"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// StoreConfig is the libsql connection for the persistent session backend.
type StoreConfig struct {
	Driver    string `mapstructure:"driver" yaml:"driver"`
	Path      string `mapstructure:"path" yaml:"path"`
	URL       string `mapstructure:"url" yaml:"url,omitempty"`
	AuthToken string `mapstructure:"auth_token" yaml:"auth_token,omitempty"`
}

// ServerConfig tunes serve mode.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint in serve mode.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsConfig carries CLI operation defaults.
type DefaultsConfig struct {
	RadiusKm   float64 `mapstructure:"radius_km" yaml:"radius_km"`
	MaxResults int     `mapstructure:"max_results" yaml:"max_results"`
}
