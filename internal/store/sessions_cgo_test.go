//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seichijunrei/seichijunrei/internal/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	row := SessionRow{
		ID:        "sess-1",
		State:     `{"station":"東京駅"}`,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}
	require.NoError(t, s.UpsertSession(ctx, row))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, row.State, got.State)

	// Upsert on the same id replaces state and expiry.
	row.State = `{"station":"秋葉原駅"}`
	row.ExpiresAt = now.Add(2 * time.Hour).Unix()
	require.NoError(t, s.UpsertSession(ctx, row))

	got, err = s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, `{"station":"秋葉原駅"}`, got.State)
	require.Equal(t, row.ExpiresAt, got.ExpiresAt)
}

func TestGetSessionMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetSession(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.UpsertSession(ctx, SessionRow{
		ID: "sess-1", State: "{}",
		CreatedAt: now.Unix(), UpdatedAt: now.Unix(), ExpiresAt: now.Add(time.Hour).Unix(),
	}))

	existed, err := s.DeleteSession(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = s.DeleteSession(ctx, "sess-1")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, row := range []SessionRow{
		{ID: "live", State: "{}", CreatedAt: now.Unix(), UpdatedAt: now.Unix(), ExpiresAt: now.Add(time.Hour).Unix()},
		{ID: "dead", State: "{}", CreatedAt: now.Unix(), UpdatedAt: now.Unix(), ExpiresAt: now.Add(-time.Minute).Unix()},
	} {
		require.NoError(t, s.UpsertSession(ctx, row))
	}

	removed, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	count, err := s.CountSessions(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	rows, err := s.ListSessions(ctx, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "live", rows[0].ID)
}
