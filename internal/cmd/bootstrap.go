package cmd

import (
	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/config"
	"github.com/seichijunrei/seichijunrei/internal/core/engine"
	"github.com/seichijunrei/seichijunrei/internal/gateway"
	"github.com/seichijunrei/seichijunrei/internal/gateway/anitabi"
	"github.com/seichijunrei/seichijunrei/internal/gateway/bangumi"
)

// buildGateway assembles the shared resilient client from configuration.
func buildGateway(cfg *config.Config, logger *zap.Logger) *gateway.Client {
	anitabiCalls, anitabiPeriod := cfg.ProviderBucket(cfg.Gateway.Anitabi)
	bangumiCalls, bangumiPeriod := cfg.ProviderBucket(cfg.Gateway.Bangumi)

	baseURLs := map[gateway.Provider]string{
		gateway.ProviderAnitabi: cfg.Gateway.Anitabi.BaseURL,
		gateway.ProviderBangumi: cfg.Gateway.Bangumi.BaseURL,
	}
	if baseURLs[gateway.ProviderAnitabi] == "" {
		baseURLs[gateway.ProviderAnitabi] = anitabi.DefaultBaseURL
	}
	if baseURLs[gateway.ProviderBangumi] == "" {
		baseURLs[gateway.ProviderBangumi] = bangumi.DefaultBaseURL
	}

	apiKeys := map[gateway.Provider]string{}
	if cfg.Gateway.Anitabi.APIKey != "" {
		apiKeys[gateway.ProviderAnitabi] = cfg.Gateway.Anitabi.APIKey
	}
	if cfg.Gateway.Bangumi.APIKey != "" {
		apiKeys[gateway.ProviderBangumi] = cfg.Gateway.Bangumi.APIKey
	}

	return gateway.New(gateway.Config{
		BaseURLs: baseURLs,
		RateLimits: map[gateway.Provider]gateway.BucketConfig{
			gateway.ProviderAnitabi: {Calls: anitabiCalls, Period: anitabiPeriod},
			gateway.ProviderBangumi: {Calls: bangumiCalls, Period: bangumiPeriod},
		},
		CacheTTL:   cfg.Gateway.CacheTTL,
		CacheSize:  cfg.Gateway.CacheSize,
		UseCache:   cfg.Gateway.UseCache,
		MaxRetries: cfg.Gateway.MaxRetries,
		Timeout:    cfg.Gateway.Timeout,
		UserAgent:  cfg.Gateway.UserAgent,
		APIKeys:    apiKeys,
	}, logger)
}

// buildEngine wires the provider catalogs over one gateway client. The
// returned closer releases the transport.
func buildEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, func()) {
	gw := buildGateway(cfg, logger)

	eng := &engine.Engine{
		Anitabi: anitabi.New(gw, logger),
		Bangumi: bangumi.New(gw, logger),
		Logger:  logger,
	}
	return eng, gw.Close
}
