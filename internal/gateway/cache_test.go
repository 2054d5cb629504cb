package gateway

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache[string](10, clock.Now)

	cache.Set("k", "v", time.Hour)

	got, ok := cache.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)
}

func TestCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache[string](10, clock.Now)

	cache.Set("k", "v", time.Minute)

	clock.Advance(59 * time.Second)
	_, ok := cache.Get("k")
	require.True(t, ok)

	clock.Advance(time.Second)
	_, ok = cache.Get("k")
	require.False(t, ok)

	// The expired entry was evicted by the lookup, not just hidden.
	require.Zero(t, cache.Stats().Size)
}

func TestCacheOverwrite(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache[int](10, clock.Now)

	cache.Set("k", 1, time.Minute)
	cache.Set("k", 2, time.Hour)

	got, ok := cache.Get("k")
	require.True(t, ok)
	require.Equal(t, 2, got)

	// The overwrite reset the TTL as well.
	clock.Advance(30 * time.Minute)
	_, ok = cache.Get("k")
	require.True(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache[string](10, nil)

	cache.Set("k", "v", time.Hour)
	require.True(t, cache.Invalidate("k"))
	require.False(t, cache.Invalidate("k"))

	_, ok := cache.Get("k")
	require.False(t, ok)
}

func TestCacheLRUEviction(t *testing.T) {
	cache := NewCache[int](2, nil)

	cache.Set("a", 1, time.Hour)
	cache.Set("b", 2, time.Hour)

	// Touch "a" so "b" is the least recently used.
	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Set("c", 3, time.Hour)

	_, ok = cache.Get("b")
	require.False(t, ok)
	_, ok = cache.Get("a")
	require.True(t, ok)
	_, ok = cache.Get("c")
	require.True(t, ok)
}

func TestCacheSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache[int](10, clock.Now)

	cache.Set("short", 1, time.Minute)
	cache.Set("long", 2, time.Hour)

	clock.Advance(2 * time.Minute)
	require.Equal(t, 1, cache.Sweep())
	require.Equal(t, 1, cache.Stats().Size)
}

func TestFingerprintDistinguishesParams(t *testing.T) {
	base := Descriptor{
		Provider: ProviderAnitabi,
		Endpoint: "/near",
		Params:   url.Values{"lat": {"35.68"}, "lng": {"139.76"}, "radius": {"5000"}},
	}
	other := Descriptor{
		Provider: ProviderAnitabi,
		Endpoint: "/near",
		Params:   url.Values{"lat": {"35.68"}, "lng": {"139.76"}, "radius": {"10000"}},
	}

	require.NotEqual(t, base.Fingerprint(), other.Fingerprint())
}

func TestFingerprintIgnoresParamOrder(t *testing.T) {
	a := url.Values{}
	a.Set("lat", "35.68")
	a.Set("lng", "139.76")

	b := url.Values{}
	b.Set("lng", "139.76")
	b.Set("lat", "35.68")

	first := Descriptor{Provider: ProviderAnitabi, Endpoint: "/near", Params: a}
	second := Descriptor{Provider: ProviderAnitabi, Endpoint: "/near", Params: b}
	require.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestFingerprintDistinguishesProviders(t *testing.T) {
	params := url.Values{"q": {"clannad"}}
	a := Descriptor{Provider: ProviderAnitabi, Endpoint: "/x", Params: params}
	b := Descriptor{Provider: ProviderBangumi, Endpoint: "/x", Params: params}
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestCacheStatsCounters(t *testing.T) {
	cache := NewCache[int](10, nil)

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i, time.Hour)
	}
	cache.Get("k0")
	cache.Get("k1")
	cache.Get("absent")

	stats := cache.Stats()
	require.Equal(t, uint64(2), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
	require.Equal(t, 3, stats.Size)
}
