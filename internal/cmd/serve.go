package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/observability"
	"github.com/seichijunrei/seichijunrei/internal/server"
	"github.com/seichijunrei/seichijunrei/internal/session"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server with graceful shutdown support.

SIGINT or SIGTERM drains in-flight requests, stops the session cleanup
loop, and flushes logs before exiting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "bind port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	if err := observability.InitServerLogger("seichijunrei", cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}
	logger := observability.ServerLogger
	defer observability.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := session.NewService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sessions.Close() // nolint:errcheck // best-effort close on shutdown

	eng, closeGateway := buildEngine(cfg, logger)
	defer closeGateway()

	srv := server.New(cfg.Server, eng, sessions, server.BuildInfo{
		Version: versionInfo.Version,
		Commit:  versionInfo.Commit,
		Date:    versionInfo.BuildDate,
	}, cfg.Metrics.Enabled, logger)

	if cfg.Session.CleanupInterval > 0 {
		go cleanupLoop(ctx, sessions, cfg.Session.CleanupInterval, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("server running",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("version", versionInfo.Version),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("metrics", cfg.Metrics.Enabled))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	stop()

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown did not complete cleanly", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// cleanupLoop removes expired sessions on a fixed interval until ctx ends.
func cleanupLoop(ctx context.Context, sessions session.Service, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.CleanupExpired(ctx)
			if err != nil {
				logger.Warn("session cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}
