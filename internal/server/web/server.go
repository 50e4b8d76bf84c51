// Package web serves the leaderboard over HTTP: an HTML page, JSON and XLSX
// views of the same ranked table, a sync trigger, health and metrics.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/karmaboard/internal/logging"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// LeaderboardReader is the read path.
type LeaderboardReader interface {
	Get(ctx context.Context, q services.LeaderboardQuery) (services.Leaderboard, error)
}

// Syncer runs one sync pass.
type Syncer interface {
	Sync(ctx context.Context) (services.SyncResult, error)
}

type Server struct {
	address     string
	leaderboard LeaderboardReader
	syncer      Syncer
	syncToken   string
	gatherer    prometheus.Gatherer
	logger      logging.Logger
}

// NewServer builds the HTTP front end. syncToken, when set, must be presented
// as a bearer token on POST /sync. gatherer backs /metrics.
func NewServer(address string, l logging.Logger, lb LeaderboardReader, syncer Syncer, syncToken string, gatherer prometheus.Gatherer) *Server {
	return &Server{
		address:     address,
		leaderboard: lb,
		syncer:      syncer,
		syncToken:   syncToken,
		gatherer:    gatherer,
		logger:      l.With("module", "http_server"),
	}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboardJSON)
	mux.HandleFunc("GET /leaderboard.xlsx", s.handleLeaderboardXLSX)
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
