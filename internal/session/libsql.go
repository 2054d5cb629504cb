package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/store"
)

// StoreService persists sessions through the libsql store so they
// survive process restarts.
type StoreService struct {
	Clock func() time.Time

	store       *store.Store
	ttl         time.Duration
	maxSessions int
	logger      *zap.Logger
}

// NewStoreService builds a libsql-backed session service. The store must
// already be open and migrated. maxSessions <= 0 means unlimited.
func NewStoreService(st *store.Store, ttl time.Duration, maxSessions int, logger *zap.Logger) *StoreService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{
		store:       st,
		ttl:         ttl,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

func (s *StoreService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

func (s *StoreService) Create(ctx context.Context, state map[string]any) (Session, error) {
	now := s.now()

	if s.maxSessions > 0 {
		count, err := s.store.CountSessions(ctx, now)
		if err != nil {
			return Session{}, err
		}
		if count >= s.maxSessions {
			return Session{}, ErrLimitExceeded
		}
	}

	if state == nil {
		state = make(map[string]any)
	}

	sess := Session{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	row, err := sessionToRow(sess)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.UpsertSession(ctx, row); err != nil {
		return Session{}, err
	}

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.Time("expires_at", sess.ExpiresAt))
	return sess, nil
}

func (s *StoreService) Get(ctx context.Context, id string) (Session, error) {
	row, err := s.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if row == nil {
		return Session{}, ErrNotFound
	}

	sess, err := rowToSession(*row)
	if err != nil {
		return Session{}, err
	}

	if !s.now().Before(sess.ExpiresAt) {
		if _, err := s.store.DeleteSession(ctx, id); err != nil {
			return Session{}, err
		}
		s.logger.Info("session expired", zap.String("session_id", id))
		return Session{}, ErrExpired
	}
	return sess, nil
}

func (s *StoreService) Update(ctx context.Context, id string, state map[string]any) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}

	if state == nil {
		state = make(map[string]any)
	}
	sess.State = state
	sess.UpdatedAt = s.now()

	row, err := sessionToRow(sess)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.UpsertSession(ctx, row); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *StoreService) Delete(ctx context.Context, id string) error {
	existed, err := s.store.DeleteSession(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

func (s *StoreService) List(ctx context.Context) ([]Session, error) {
	rows, err := s.store.ListSessions(ctx, s.now())
	if err != nil {
		return nil, err
	}

	out := make([]Session, 0, len(rows))
	for _, row := range rows {
		sess, err := rowToSession(row)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

func (s *StoreService) CleanupExpired(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("expired sessions cleaned", zap.Int("removed", removed))
	}
	return removed, nil
}

// Close closes the underlying store connection.
func (s *StoreService) Close() error {
	return s.store.Close()
}

func sessionToRow(sess Session) (store.SessionRow, error) {
	state, err := json.Marshal(sess.State)
	if err != nil {
		return store.SessionRow{}, fmt.Errorf("encode session state: %w", err)
	}
	return store.SessionRow{
		ID:        sess.ID,
		State:     string(state),
		CreatedAt: sess.CreatedAt.UTC().Unix(),
		UpdatedAt: sess.UpdatedAt.UTC().Unix(),
		ExpiresAt: sess.ExpiresAt.UTC().Unix(),
	}, nil
}

func rowToSession(row store.SessionRow) (Session, error) {
	var state map[string]any
	if row.State != "" {
		if err := json.Unmarshal([]byte(row.State), &state); err != nil {
			return Session{}, fmt.Errorf("decode session state: %w", err)
		}
	}
	if state == nil {
		state = make(map[string]any)
	}
	return Session{
		ID:        row.ID,
		State:     state,
		CreatedAt: time.Unix(row.CreatedAt, 0).UTC(),
		UpdatedAt: time.Unix(row.UpdatedAt, 0).UTC(),
		ExpiresAt: time.Unix(row.ExpiresAt, 0).UTC(),
	}, nil
}
