package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/config"
	"github.com/seichijunrei/seichijunrei/internal/store"
)

// NewService builds the session backend named by the configuration.
// The libsql backend opens and migrates its store; Close on the returned
// service releases it.
func NewService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Service, error) {
	switch cfg.Session.Backend {
	case "", "memory":
		return NewMemoryService(cfg.Session.TTL, cfg.Session.MaxSessions, logger), nil
	case "libsql":
		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("migrate session store: %w", err)
		}
		return NewStoreService(st, cfg.Session.TTL, cfg.Session.MaxSessions, logger), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
	}
}
