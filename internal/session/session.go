// Package session tracks planning sessions: where an assistant run keeps
// its working state between calls. Backends share one Service contract;
// expiry and limits are enforced uniformly.
package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means no session exists under the id.
	ErrNotFound = errors.New("session not found")

	// ErrExpired means the session existed but its TTL lapsed. The
	// backend removes it on discovery.
	ErrExpired = errors.New("session expired")

	// ErrLimitExceeded means the backend holds the configured maximum
	// number of live sessions.
	ErrLimitExceeded = errors.New("session limit exceeded")
)

// Session is one planning session. State is opaque to the service.
type Session struct {
	ID        string         `json:"id"`
	State     map[string]any `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Service is the session store contract. Get refreshes the TTL on
// access; Update replaces the state wholesale.
type Service interface {
	Create(ctx context.Context, state map[string]any) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, id string, state map[string]any) (Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Session, error)
	CleanupExpired(ctx context.Context) (int, error)
	Close() error
}
