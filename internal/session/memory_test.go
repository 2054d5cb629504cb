package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(ttl time.Duration, maxSessions int) (*MemoryService, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewMemoryService(ttl, maxSessions, nil)
	svc.Clock = clock.Now
	return svc, clock
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(time.Hour, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, map[string]any{"station": "東京駅"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, created.CreatedAt.Add(time.Hour), created.ExpiresAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "東京駅", got.State["station"])
}

func TestGetUnknown(t *testing.T) {
	svc, _ := newTestService(time.Hour, 10)

	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetExpired(t *testing.T) {
	svc, clock := newTestService(time.Hour, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrExpired)

	// The expired session is gone, not just rejected.
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeepsExpiry(t *testing.T) {
	svc, clock := newTestService(time.Hour, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)

	updated, err := svc.Update(ctx, created.ID, map[string]any{"bangumi_id": "115908"})
	require.NoError(t, err)
	require.Equal(t, created.ExpiresAt, updated.ExpiresAt)
	require.Equal(t, clock.now, updated.UpdatedAt)
	require.Equal(t, "115908", updated.State["bangumi_id"])
}

func TestUpdateUnknownAndExpired(t *testing.T) {
	svc, clock := newTestService(time.Hour, 10)
	ctx := context.Background()

	_, err := svc.Update(ctx, "nope", nil)
	require.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Create(ctx, nil)
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	_, err = svc.Update(ctx, created.ID, nil)
	require.ErrorIs(t, err, ErrExpired)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(time.Hour, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestSessionLimit(t *testing.T) {
	svc, clock := newTestService(time.Hour, 2)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, nil)
	require.ErrorIs(t, err, ErrLimitExceeded)

	// Expired sessions free their slots.
	clock.Advance(2 * time.Hour)
	_, err = svc.Create(ctx, nil)
	require.NoError(t, err)
}

func TestListOrdersByUpdate(t *testing.T) {
	svc, clock := newTestService(time.Hour, 10)
	ctx := context.Background()

	first, err := svc.Create(ctx, nil)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = svc.Update(ctx, first.ID, map[string]any{"touched": true})
	require.NoError(t, err)

	sessions, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, first.ID, sessions[0].ID)
	require.Equal(t, second.ID, sessions[1].ID)
}

func TestCleanupExpired(t *testing.T) {
	svc, clock := newTestService(time.Hour, 10)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	live, err := svc.Create(ctx, nil)
	require.NoError(t, err)

	clock.Advance(45 * time.Minute)

	removed, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	sessions, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, live.ID, sessions[0].ID)

	require.NoError(t, svc.Delete(ctx, live.ID))
}
