package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryService keeps sessions in process memory. Safe for concurrent
// use; expired sessions are removed on access and by CleanupExpired.
type MemoryService struct {
	Clock func() time.Time

	mu          sync.Mutex
	sessions    map[string]Session
	ttl         time.Duration
	maxSessions int
	logger      *zap.Logger
}

// NewMemoryService builds an in-memory session service. maxSessions <= 0
// means unlimited.
func NewMemoryService(ttl time.Duration, maxSessions int, logger *zap.Logger) *MemoryService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryService{
		sessions:    make(map[string]Session),
		ttl:         ttl,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

func (s *MemoryService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// Create registers a new session with a fresh id and the configured TTL.
func (s *MemoryService) Create(_ context.Context, state map[string]any) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		// Expired entries may still occupy slots; reclaim before
		// refusing.
		s.cleanupLocked(s.now())
		if len(s.sessions) >= s.maxSessions {
			return Session{}, ErrLimitExceeded
		}
	}

	if state == nil {
		state = make(map[string]any)
	}

	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.ID] = sess

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.Time("expires_at", sess.ExpiresAt))
	return sess, nil
}

// Get returns a session by id. An expired session is removed and
// reported as ErrExpired; the expiry is not extended on access.
func (s *MemoryService) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		s.logger.Info("session expired", zap.String("session_id", id))
		return Session{}, ErrExpired
	}
	return sess, nil
}

// Update replaces the session state and refreshes UpdatedAt. The expiry
// set at creation stands.
func (s *MemoryService) Update(_ context.Context, id string, state map[string]any) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return Session{}, ErrExpired
	}

	if state == nil {
		state = make(map[string]any)
	}
	sess.State = state
	sess.UpdatedAt = s.now()
	s.sessions[id] = sess
	return sess, nil
}

// Delete removes a session. Deleting an unknown id is ErrNotFound.
func (s *MemoryService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

// List returns the live sessions, most recently updated first.
func (s *MemoryService) List(_ context.Context) ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if now.Before(sess.ExpiresAt) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// CleanupExpired removes all expired sessions and reports how many.
func (s *MemoryService) CleanupExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.cleanupLocked(s.now())
	if removed > 0 {
		s.logger.Info("expired sessions cleaned",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.sessions)))
	}
	return removed, nil
}

func (s *MemoryService) cleanupLocked(now time.Time) int {
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Close is a no-op for the memory backend.
func (s *MemoryService) Close() error { return nil }
