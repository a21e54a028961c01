// Package server implements the HTTP surface: the telephony webhooks that
// prompt for and capture spoken tasks, the authenticated outbound call
// trigger, and health endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"voicetasks/internal/config"
	"voicetasks/internal/logging"
	"voicetasks/internal/metrics"
	"voicetasks/internal/service"
	"voicetasks/internal/telephony"
)

// Route paths.
const (
	PathHealth  = "/"
	PathReady   = "/readyz"
	PathVoice   = "/voice"
	PathCapture = "/capture"
	PathCall    = "/call"
)

const (
	// DefaultReadHeaderTimeout bounds slow clients.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Options configures a Server.
type Options struct {
	Config *config.Config
	Tasks  service.Service

	// Caller places outbound calls. Nil disables the trigger.
	Caller telephony.Caller

	Logger *slog.Logger

	// Registry receives the server's collectors. A fresh registry is used if nil.
	Registry *prometheus.Registry
}

// Server holds the handlers and their dependencies.
type Server struct {
	cfg      *config.Config
	tasks    service.Service
	caller   telephony.Caller
	logger   *slog.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	health   *HealthChecker
}

// New creates a Server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		cfg:      cfg,
		tasks:    opts.Tasks,
		caller:   opts.Caller,
		logger:   logger,
		metrics:  metrics.New(reg),
		registry: reg,
		health:   NewHealthChecker(),
	}
}

// Registry returns the registry holding the server's metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Health returns the server's health checker.
func (s *Server) Health() *HealthChecker {
	return s.health
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.instrument(PathHealth, s.health.LivenessHandler()))
	mux.Handle("GET "+PathReady, s.instrument(PathReady, s.health.ReadinessHandler()))
	mux.Handle("GET "+PathVoice, s.instrument(PathVoice, http.HandlerFunc(s.handleVoice)))
	mux.Handle("POST "+PathVoice, s.instrument(PathVoice, http.HandlerFunc(s.handleVoice)))
	mux.Handle("POST "+PathCapture, s.instrument(PathCapture, http.HandlerFunc(s.handleCapture)))
	mux.Handle("POST "+PathCall, s.instrument(PathCall, http.HandlerFunc(s.handleCall)))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.health.SetReady(false)
	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument logs and measures every request to route.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.metrics.ObserveRequest(route, rec.status, elapsed)
		s.logger.Debug("http request",
			"method", r.Method,
			slog.String(logging.KeyRoute, route),
			slog.Int(logging.KeyStatus, rec.status),
			slog.Duration(logging.KeyDuration, elapsed),
		)
	})
}
