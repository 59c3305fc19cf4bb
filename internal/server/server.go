// Package server exposes the dashboard over HTTP: upload, column mapping,
// settings, category editor, KPI/chart views, data health and XLSX export.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/config"
	"github.com/procurement-tools/procdash/internal/dashboard"
	"github.com/procurement-tools/procdash/internal/export"
)

// Options configure the server.
type Options struct {
	Addr       string
	SessionTTL time.Duration
}

// Server holds the HTTP surface and its collaborators. The current dashboard
// configuration is kept in memory and written through to the store on every
// mutating request.
type Server struct {
	opts     Options
	store    *config.Store
	svc      *dashboard.Service
	exporter *export.Service
	sessions *sessionStore
	logger   *zap.Logger

	mu  sync.RWMutex
	cfg *config.Config
}

// New builds a Server with the configuration loaded from the store.
func New(ctx context.Context, opts Options, store *config.Store, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}

	cfg, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &Server{
		opts:     opts,
		store:    store,
		svc:      dashboard.NewService(logger),
		exporter: export.NewService(logger),
		sessions: newSessionStore(opts.SessionTTL),
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// currentConfig returns a read snapshot of the configuration.
func (s *Server) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// setConfig swaps the in-memory configuration after a successful store write.
func (s *Server) setConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Handler assembles the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleSessionSummary)

	mux.HandleFunc("GET /api/mapping/{sheet}", s.handleGetMapping)
	mux.HandleFunc("PUT /api/mapping/{sheet}", s.handlePutMapping)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)

	mux.HandleFunc("GET /api/categories/mapping", s.handleGetCategoryMapping)
	mux.HandleFunc("PUT /api/categories/mapping", s.handlePutCategoryMapping)
	mux.HandleFunc("POST /api/categories/mapping/entries", s.handleUpsertCategoryEntries)
	mux.HandleFunc("GET /api/categories/mapping/export", s.handleExportCategoryMapping)

	mux.HandleFunc("GET /api/sessions/{id}/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/sessions/{id}/records/{sheet}", s.handleRecords)
	mux.HandleFunc("GET /api/sessions/{id}/export/{sheet}", s.handleExportSheet)
	mux.HandleFunc("GET /api/sessions/{id}/health", s.handleDataHealth)

	mux.HandleFunc("GET /api/config/export", s.handleConfigExport)
	mux.HandleFunc("POST /api/config/import", s.handleConfigImport)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /", s.handleIndex)

	var h http.Handler = mux
	h = recovery(s.logger)(h)
	h = requestLogger(s.logger)(h)
	h = requestID(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http serving", zap.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "config store unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
