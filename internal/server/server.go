// Package server exposes the pilgrimage operations over HTTP in serve
// mode, plus health, version, and metrics endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/config"
	"github.com/seichijunrei/seichijunrei/internal/core/engine"
	"github.com/seichijunrei/seichijunrei/internal/server/handlers"
	servermw "github.com/seichijunrei/seichijunrei/internal/server/middleware"
	"github.com/seichijunrei/seichijunrei/internal/session"
)

// BuildInfo labels the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Server is the HTTP front end.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	cfg      config.ServerConfig
	engine   *engine.Engine
	sessions session.Service
	logger   *zap.Logger
}

// New assembles the router. sessions may be nil, which disables the
// session endpoints.
func New(cfg config.ServerConfig, eng *engine.Engine, sessions session.Service, build BuildInfo, metricsEnabled bool, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		engine:   eng,
		sessions: sessions,
		logger:   logger,
	}

	s.router.Use(chimw.RealIP)
	s.router.Use(servermw.RequestID)
	s.router.Use(servermw.RequestMetrics(logger))
	s.router.Use(servermw.Recovery(logger))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorDetail{
			Code:      "not_found",
			Message:   "the requested resource was not found",
			RequestID: servermw.GetRequestID(r.Context()),
		}})
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: errorDetail{
			Code:      "method_not_allowed",
			Message:   "the requested method is not allowed",
			RequestID: servermw.GetRequestID(r.Context()),
		}})
	})

	s.registerRoutes(build, metricsEnabled)
	return s
}

func (s *Server) registerRoutes(build BuildInfo, metricsEnabled bool) {
	s.router.Get("/health", handlers.Health(build.Version))
	s.router.Get("/health/live", handlers.Liveness)
	s.router.Get("/health/ready", handlers.Readiness)
	s.router.Get("/version", handlers.Version(build.Version, build.Commit, build.Date))

	if metricsEnabled {
		s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/stations", s.handleStation)
		r.Get("/near", s.handleNear)
		r.Get("/bangumi/{id}/points", s.handlePoints)
		r.Get("/subjects", s.handleSearchSubjects)
		r.Get("/subjects/{id}", s.handleGetSubject)

		if s.sessions != nil {
			r.Post("/sessions", s.handleCreateSession)
			r.Get("/sessions", s.handleListSessions)
			r.Get("/sessions/{id}", s.handleGetSession)
			r.Put("/sessions/{id}", s.handleUpdateSession)
			r.Delete("/sessions/{id}", s.handleDeleteSession)
		}
	})
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
