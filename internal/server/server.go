package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/afresh/internal/auth"
	"github.com/dukerupert/afresh/internal/config"
	"github.com/dukerupert/afresh/internal/handler"
	"github.com/dukerupert/afresh/internal/metrics"
	"github.com/dukerupert/afresh/internal/middleware"
	ws "github.com/dukerupert/afresh/internal/websocket"
)

type Server struct {
	db          *sql.DB
	cfg         config.Config
	hub         *ws.Hub
	tokens      *auth.Tokens
	ledgerH     *handler.LedgerHandler
	progressH   *handler.ProgressHandler
	logH        *handler.LogHandler
	goalH       *handler.GoalHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) (*Server, error) {
	svc, err := NewServices(db, cfg, logger)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(logger.With("component", "websocket"))

	return &Server{
		db:          db,
		cfg:         cfg,
		hub:         hub,
		tokens:      auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer),
		ledgerH:     handler.NewLedgerHandler(svc.Ledger, hub, logger.With("component", "ledger_handler")),
		progressH:   handler.NewProgressHandler(svc.Progress, logger.With("component", "progress_handler")),
		logH:        handler.NewLogHandler(svc.Logs, hub, logger.With("component", "log")),
		goalH:       handler.NewGoalHandler(svc.Goals, hub, logger.With("component", "goal")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}, nil
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	if s.cfg.Metrics.Enabled {
		outerMux.Handle("GET /metrics", metrics.Handler())
	}

	// Protected routes wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens)
	outerMux.Handle("/", authMiddleware(protectedMux))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
	return middleware.RequestID(logged)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("health check: ping db", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"status":"` + status + `"}`))
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	limit := s.cfg.Server.ClaimsPerMinute
	if limit <= 0 {
		return h
	}
	rl := middleware.RateLimit(s.rateLimiter, middleware.ByUser, limit, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Points ledger
	mux.HandleFunc("PUT /api/steps/{date}", s.ledgerH.RecordSteps)
	mux.HandleFunc("GET /api/steps", s.ledgerH.StepHistory)
	mux.HandleFunc("GET /api/points", s.ledgerH.Points)
	mux.HandleFunc("GET /api/rewards", s.ledgerH.Rewards)
	mux.HandleFunc("POST /api/rewards/{id}/claim", s.rateLimitedHandler(s.ledgerH.Claim))
	mux.HandleFunc("GET /api/claims", s.ledgerH.Claims)

	// Progress
	mux.HandleFunc("GET /api/streak", s.progressH.Streak)
	mux.HandleFunc("GET /api/achievements", s.progressH.Achievements)
	mux.HandleFunc("GET /api/health-timeline", s.progressH.HealthTimeline)
	mux.HandleFunc("GET /api/window", s.progressH.Window)
	mux.HandleFunc("GET /api/summary", s.progressH.Summary)

	// Daily logs and goal
	mux.HandleFunc("PUT /api/logs/{date}", s.logH.Put)
	mux.HandleFunc("GET /api/logs", s.logH.List)
	mux.HandleFunc("PUT /api/goal", s.goalH.Put)
	mux.HandleFunc("GET /api/goal", s.goalH.Get)

	// Live sync
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.cfg.Server.OriginPatterns, s.logger.With("component", "websocket")))
}

// RunCleanup prunes expired rate limiter entries until ctx is done.
func (s *Server) RunCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.rateLimiter.Cleanup()
		case <-ctx.Done():
			return
		}
	}
}
