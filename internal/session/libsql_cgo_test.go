//go:build cgo

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seichijunrei/seichijunrei/internal/config"
	"github.com/seichijunrei/seichijunrei/internal/store"
)

func newStoreService(t *testing.T, ttl time.Duration, maxSessions int) (*StoreService, *fakeClock) {
	t.Helper()

	st, err := store.Open(context.Background(), config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewStoreService(st, ttl, maxSessions, nil)
	svc.Clock = clock.Now
	t.Cleanup(func() { _ = svc.Close() })

	return svc, clock
}

func TestStoreServiceRoundTrip(t *testing.T) {
	svc, _ := newStoreService(t, time.Hour, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, map[string]any{"station": "東京駅"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "東京駅", got.State["station"])
	require.Equal(t, created.ExpiresAt.Unix(), got.ExpiresAt.Unix())
}

func TestStoreServiceExpiry(t *testing.T) {
	svc, clock := newStoreService(t, time.Hour, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrExpired)

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreServiceLimitAndCleanup(t *testing.T) {
	svc, clock := newStoreService(t, time.Hour, 1)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, nil)
	require.ErrorIs(t, err, ErrLimitExceeded)

	clock.Advance(2 * time.Hour)

	removed, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = svc.Create(ctx, nil)
	require.NoError(t, err)
}

func TestStoreServiceUpdate(t *testing.T) {
	svc, clock := newStoreService(t, time.Hour, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)

	updated, err := svc.Update(ctx, created.ID, map[string]any{"bangumi_id": "115908"})
	require.NoError(t, err)
	require.Equal(t, created.ExpiresAt.Unix(), updated.ExpiresAt.Unix())
	require.Equal(t, "115908", updated.State["bangumi_id"])
}
