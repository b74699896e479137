package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/spektr-org/aadhaar-pulse/config"
	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/schema"
	"github.com/spektr-org/aadhaar-pulse/translator"
)

// ============================================================================
// SERVER — HTTP backend for the dashboard
// ============================================================================
// One immutable Dataset per process. Every request carries its own
// FilterSpec (query string); dashboards are cached per FilterSpec.
// ============================================================================

// Server serves dashboards over one dataset snapshot.
type Server struct {
	dataset    *engine.Dataset
	profile    schema.Config
	translator *translator.Translator
	results    *cache.Cache
	opts       []engine.Option
	cfg        config.ServerConfig
	logger     *zap.Logger
	started    time.Time
	router     *chi.Mux
}

// New builds a Server. opts are passed to every engine.Analyze call.
func New(ds *engine.Dataset, cfg config.ServerConfig, logger *zap.Logger, opts ...engine.Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	sch := schema.Enrolment()
	s := &Server{
		dataset:    ds,
		profile:    sch.Profile(ds.View()),
		translator: translator.New(sch),
		results:    cache.New(ttl, 2*ttl),
		opts:       append([]engine.Option{engine.WithLogger(logger)}, opts...),
		cfg:        cfg,
		logger:     logger,
		started:    time.Now(),
	}
	s.router = s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("snapshot", s.dataset.ID),
			zap.Int("records", s.dataset.Len()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// dashboard returns the cached dashboard for spec, computing it on a miss.
func (s *Server) dashboard(ctx context.Context, spec engine.FilterSpec) (*engine.Dashboard, error) {
	key := spec.CacheKey()
	if v, ok := s.results.Get(key); ok {
		return v.(*engine.Dashboard), nil
	}

	d, err := engine.Analyze(ctx, s.dataset.View(), spec, s.opts...)
	if err != nil {
		return nil, err
	}
	s.results.Set(key, d, cache.DefaultExpiration)
	return d, nil
}
