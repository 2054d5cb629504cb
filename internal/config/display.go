package config

const redactedValue = "[redacted]"

// Display returns the effective settings shaped like the config file,
// with durations rendered as strings and secrets redacted. Meant for
// printing, not for round-tripping.
func (c *Config) Display() map[string]any {
	return map[string]any{
		"gateway": map[string]any{
			"rate_limit_calls":  c.Gateway.RateLimitCalls,
			"rate_limit_period": c.Gateway.RateLimitPeriod.String(),
			"cache_ttl":         c.Gateway.CacheTTL.String(),
			"cache_size":        c.Gateway.CacheSize,
			"use_cache":         c.Gateway.UseCache,
			"max_retries":       c.Gateway.MaxRetries,
			"timeout":           c.Gateway.Timeout.String(),
			"user_agent":        c.Gateway.UserAgent,
			"anitabi":           displayProvider(c.Gateway.Anitabi),
			"bangumi":           displayProvider(c.Gateway.Bangumi),
		},
		"session": map[string]any{
			"backend":          c.Session.Backend,
			"ttl":              c.Session.TTL.String(),
			"max_sessions":     c.Session.MaxSessions,
			"cleanup_interval": c.Session.CleanupInterval.String(),
		},
		"store": map[string]any{
			"driver":     c.Store.Driver,
			"path":       c.Store.Path,
			"url":        c.Store.URL,
			"auth_token": redactSecret(c.Store.AuthToken),
		},
		"server": map[string]any{
			"host":             c.Server.Host,
			"port":             c.Server.Port,
			"read_timeout":     c.Server.ReadTimeout.String(),
			"write_timeout":    c.Server.WriteTimeout.String(),
			"idle_timeout":     c.Server.IdleTimeout.String(),
			"shutdown_timeout": c.Server.ShutdownTimeout.String(),
		},
		"logging": map[string]any{
			"level":  c.Logging.Level,
			"format": c.Logging.Format,
		},
		"metrics": map[string]any{
			"enabled": c.Metrics.Enabled,
		},
		"defaults": map[string]any{
			"radius_km":   c.Defaults.RadiusKm,
			"max_results": c.Defaults.MaxResults,
		},
	}
}

func displayProvider(p ProviderConfig) map[string]any {
	out := map[string]any{
		"base_url": p.BaseURL,
		"api_key":  redactSecret(p.APIKey),
	}
	if p.RateLimitCalls > 0 {
		out["rate_limit_calls"] = p.RateLimitCalls
	}
	if p.RateLimitPeriod > 0 {
		out["rate_limit_period"] = p.RateLimitPeriod.String()
	}
	return out
}

func redactSecret(value string) string {
	if value == "" {
		return ""
	}
	return redactedValue
}
