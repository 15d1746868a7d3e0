package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/spektr-org/homesight/config"
	"github.com/spektr-org/homesight/dataset"
)

// ============================================================================
// SERVER — HTTP wiring, lifecycle and dataset loading
// ============================================================================
// One Server per dataset source. The first load runs before the listener:
// a schema mismatch stops startup, a fetch failure degrades the store to
// an empty dataset and the server comes up anyway.
// ============================================================================

// Server serves the dashboard API for one dataset source.
type Server struct {
	cfg     *config.Config
	log     *zap.Logger
	loader  *dataset.Loader
	store   *Store
	metrics *Metrics
	router  *mux.Router
	http    *http.Server
}

// New wires a Server from its dependencies. reg may be nil to use the
// default Prometheus registerer.
func New(cfg *config.Config, log *zap.Logger, loader *dataset.Loader, reg prometheus.Registerer) (*Server, error) {
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("build metrics: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		loader:  loader,
		store:   NewStore(cfg.Dataset.Source),
		metrics: metrics,
	}
	s.routes()
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metrics.SetDataset(StateLoading, 0)
	return s, nil
}

// routes builds the router: versioned API, health and metrics.
func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(RequestID, AccessLog(s.log), Instrument(s.metrics))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/controls", s.handleControls).Methods(http.MethodGet)
	api.HandleFunc("/views/{view}", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	api.HandleFunc("/export.csv", s.handleExportCSV).Methods(http.MethodGet)
	api.HandleFunc("/export.xlsx", s.handleExportXLSX).Methods(http.MethodGet)
	api.HandleFunc("/charts/{chart}.png", s.handleChartPNG).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	s.router = r
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// LoadDataset performs one load of the configured source and installs the
// outcome in the store. A SchemaError is returned to the caller as fatal.
// A recoverable load failure degrades the store, bumps the failure
// counter and returns nil so the server keeps serving.
func (s *Server) LoadDataset(ctx context.Context) error {
	source := s.cfg.Dataset.Source

	ds, err := s.loader.Load(ctx, source)
	if err != nil {
		var schemaErr *dataset.SchemaError
		if errors.As(err, &schemaErr) {
			return err
		}
		s.log.Error("dataset load failed, serving empty dataset",
			zap.String("source", source),
			zap.Error(err))
		s.store.SetError(source, err.Error())
		s.metrics.LoadFailures.Inc()
		s.metrics.SetDataset(StateError, 0)
		return nil
	}

	s.store.SetReady(ds)
	s.metrics.SetDataset(StateReady, ds.Len())
	return nil
}

// Run starts the listener and blocks until ctx is canceled, then drains
// in-flight requests within the configured shutdown grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	grace := s.cfg.GetShutdownTimeout()
	s.log.Info("shutting down", zap.Duration("grace", grace))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
