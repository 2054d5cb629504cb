package gateway

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BucketConfig sizes one provider's token bucket: Calls is the burst
// capacity, Period the interval over which the bucket fully refills.
type BucketConfig struct {
	Calls  int
	Period time.Duration
}

func (b BucketConfig) withDefaults() BucketConfig {
	if b.Calls <= 0 {
		b.Calls = 100
	}
	if b.Period <= 0 {
		b.Period = time.Minute
	}
	return b
}

func (b BucketConfig) refillRate() rate.Limit {
	return rate.Limit(float64(b.Calls) / b.Period.Seconds())
}

// Limiter enforces per-provider call budgets with token buckets.
//
// Clock and Sleep are injectable for tests; both default to real time. Each
// Acquire consumes exactly one whole token, waiting for the refill when the
// bucket is empty. Cancellation while waiting returns the token.
type Limiter struct {
	Clock func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	configs map[Provider]BucketConfig
	buckets map[Provider]*rate.Limiter
}

// NewLimiter builds a limiter with one bucket per configured provider.
// Providers without an explicit config get the default 100 calls/minute.
func NewLimiter(configs map[Provider]BucketConfig) *Limiter {
	l := &Limiter{
		configs: make(map[Provider]BucketConfig, len(configs)),
		buckets: make(map[Provider]*rate.Limiter, len(configs)),
	}
	for provider, cfg := range configs {
		l.configs[provider] = cfg.withDefaults()
	}
	return l
}

// Acquire blocks until a token is available for the provider, consumes it,
// and returns how long it waited. If ctx is cancelled while waiting the
// reservation is returned to the bucket and no token is consumed.
func (l *Limiter) Acquire(ctx context.Context, provider Provider) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	bucket := l.bucket(provider)
	start := l.now()

	res := bucket.ReserveN(start, 1)
	wait := res.DelayFrom(start)
	if wait <= 0 {
		return 0, nil
	}

	if err := l.sleep(ctx, wait); err != nil {
		res.CancelAt(l.now())
		return 0, err
	}

	return wait, nil
}

func (l *Limiter) bucket(provider Provider) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bucket, ok := l.buckets[provider]; ok {
		return bucket
	}

	cfg, ok := l.configs[provider]
	if !ok {
		cfg = BucketConfig{}.withDefaults()
	}
	if l.buckets == nil {
		l.buckets = make(map[Provider]*rate.Limiter)
	}

	bucket := rate.NewLimiter(cfg.refillRate(), cfg.Calls)
	l.buckets[provider] = bucket
	return bucket
}

func (l *Limiter) now() time.Time {
	if l != nil && l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}

func (l *Limiter) sleep(ctx context.Context, d time.Duration) error {
	if l != nil && l.Sleep != nil {
		return l.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
