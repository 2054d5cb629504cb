// Package gateway is the resilient client layer shared by every upstream
// catalog. It combines a per-provider token-bucket rate limiter, a TTL
// response cache keyed by request fingerprint, bounded retries with
// exponential backoff, and translation of heterogeneous upstream failures
// into a four-kind error taxonomy. Provider packages (anitabi, bangumi)
// build typed clients on top of Call.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/metrics"
)

const (
	backoffBase = time.Second
	backoffMax  = 30 * time.Second
)

// Config carries the gateway tuning knobs. Zero values fall back to the
// defaults the providers were tuned with.
type Config struct {
	BaseURLs   map[Provider]string
	RateLimits map[Provider]BucketConfig
	CacheTTL   time.Duration
	CacheSize  int
	UseCache   bool
	MaxRetries int
	Timeout    time.Duration
	UserAgent  string
	APIKeys    map[Provider]string
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Hour
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// Client orchestrates upstream calls: cache check, token acquisition, the
// transport exchange with bounded retries, response mapping, and cache
// write-back. One long-lived Client serves all providers; Close releases
// the transport.
type Client struct {
	// Transport, Clock, and Sleep may be replaced before first use;
	// tests inject fakes through them.
	Transport Transport
	Clock     func() time.Time
	Sleep     func(ctx context.Context, d time.Duration) error

	cfg     Config
	limiter *Limiter
	cache   *Cache[any]
	logger  *zap.Logger
}

// New builds a gateway client from cfg. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		Transport: &HTTPTransport{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent, APIKeys: cfg.APIKeys},
		cfg:       cfg,
		logger:    logger,
	}
	c.limiter = NewLimiter(cfg.RateLimits)
	c.limiter.Clock = c.now
	c.limiter.Sleep = c.sleep
	c.cache = NewCache[any](cfg.CacheSize, c.now)
	return c
}

// Close releases the transport connection if the client owns one.
func (c *Client) Close() {
	if t, ok := c.Transport.(*HTTPTransport); ok {
		t.Close()
	}
}

// CacheStats exposes cache counters for diagnostics.
func (c *Client) CacheStats() CacheStats {
	return c.cache.Stats()
}

// Invalidate drops the cached response for a descriptor.
func (c *Client) Invalidate(d Descriptor) bool {
	return c.cache.Invalidate(d.Fingerprint())
}

// Call performs the request described by d and decodes the body with
// decode. Successful results are cached under the descriptor fingerprint;
// a later identical call inside the TTL returns the cached value without
// touching the limiter or the transport. Failures come back as *Error:
// Unavailable is retried up to MaxRetries extra attempts (each re-acquires
// a token after exponential backoff), the other kinds surface immediately
// and are never cached.
func Call[T any](ctx context.Context, c *Client, d Descriptor, decode func([]byte) (T, error)) (T, error) {
	var zero T

	fingerprint := d.Fingerprint()
	if c.cfg.UseCache {
		if value, ok := c.cache.Get(fingerprint); ok {
			if typed, ok := value.(T); ok {
				metrics.RecordCacheLookup(string(d.Provider), "hit")
				c.logger.Debug("cache hit",
					zap.String("provider", string(d.Provider)),
					zap.String("endpoint", d.Endpoint))
				return typed, nil
			}
			// Type changed under the same fingerprint; treat as miss.
			c.cache.Invalidate(fingerprint)
		}
		metrics.RecordCacheLookup(string(d.Provider), "miss")
	}

	requestURL := c.requestURL(d)

	var lastErr *Error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt - 1)
			c.logger.Warn("retrying upstream call",
				zap.String("provider", string(d.Provider)),
				zap.String("endpoint", d.Endpoint),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", delay),
				zap.Error(lastErr))
			metrics.RecordGatewayRetry(string(d.Provider))
			if err := c.sleep(ctx, delay); err != nil {
				return zero, translate(d, err)
			}
		}

		waited, err := c.limiter.Acquire(ctx, d.Provider)
		if err != nil {
			return zero, translate(d, err)
		}
		if waited > 0 {
			metrics.ObserveRateLimitWait(string(d.Provider), waited)
			c.logger.Debug("rate limit wait",
				zap.String("provider", string(d.Provider)),
				zap.Duration("waited", waited))
		}

		value, err := exchange(ctx, c, d, requestURL, decode)
		if err == nil {
			if c.cfg.UseCache {
				c.cache.Set(fingerprint, any(value), c.cfg.CacheTTL)
			}
			metrics.RecordGatewayRequest(string(d.Provider), "success")
			return value, nil
		}

		gerr := translate(d, err)
		if !gerr.Retryable() {
			metrics.RecordGatewayRequest(string(d.Provider), string(gerr.Kind))
			return zero, gerr
		}
		lastErr = gerr

		// The caller walked away; surface without burning more quota.
		if ctx.Err() != nil {
			break
		}
	}

	metrics.RecordGatewayRequest(string(d.Provider), string(lastErr.Kind))
	c.logger.Error("upstream call failed after retries",
		zap.String("provider", string(d.Provider)),
		zap.String("endpoint", d.Endpoint),
		zap.Int("attempts", c.cfg.MaxRetries+1),
		zap.Error(lastErr))
	return zero, lastErr
}

// exchange runs one transport round trip under the per-attempt deadline
// and decodes the payload. Decode failures are returned unwrapped so
// translate can decide their kind.
func exchange[T any](ctx context.Context, c *Client, d Descriptor, requestURL string, decode func([]byte) (T, error)) (T, error) {
	var zero T

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	status, body, err := c.Transport.Do(attemptCtx, d.Provider, http.MethodGet, requestURL, d.Params)
	if err != nil {
		return zero, err
	}
	if status >= 400 {
		return zero, &statusError{status: status, body: body}
	}

	return decode(body)
}

func (c *Client) requestURL(d Descriptor) string {
	base := strings.TrimRight(c.cfg.BaseURLs[d.Provider], "/")
	endpoint := d.Endpoint
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return base + endpoint
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func (c *Client) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func backoffDelay(attempt int) time.Duration {
	delay := backoffBase << attempt
	if delay > backoffMax || delay <= 0 {
		delay = backoffMax
	}
	return delay
}
