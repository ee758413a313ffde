// Package server exposes the status dashboard over HTTP.
//
// Routes:
//
//	GET  /api/status         refresh and return the ordered rows
//	POST /api/update-status  resolve caller-supplied rows with a caller-supplied query
//	GET  /api/summary        refresh and return the summary counts
//	GET  /healthz            liveness plus upstream breaker states
//
// Every response carries permissive CORS headers so the dashboard frontend
// can be served from a different origin.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dappnode/packages-status/pkg/pipeline"
	"github.com/dappnode/packages-status/pkg/status"
)

// Refresher runs refresh cycles. [*pipeline.Runner] implements it.
type Refresher interface {
	Refresh(ctx context.Context) (*pipeline.Report, error)
	Resolve(ctx context.Context, rows []status.Row, query string) ([]status.Row, error)
}

// BreakerStates reports the circuit state of every upstream host.
type BreakerStates interface {
	States() map[string]string
}

// Option configures a [Server].
type Option func(*Server)

// WithReportTTL keeps a refresh report for d before running a new cycle.
// Zero disables memoization.
func WithReportTTL(d time.Duration) Option {
	return func(s *Server) { s.ttl = d }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBreakers exposes breaker states on /healthz.
func WithBreakers(b BreakerStates) Option {
	return func(s *Server) { s.breakers = b }
}

// Server serves the dashboard API.
type Server struct {
	runner   Refresher
	breakers BreakerStates
	logger   *log.Logger
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	report   *pipeline.Report
	reportAt time.Time

	srvMu      sync.Mutex
	httpServer *http.Server
	closed     bool
}

// New creates a server backed by runner.
func New(runner Refresher, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Start listens on addr and blocks until the server is shut down. It returns
// nil at once when Shutdown has already been called.
func (s *Server) Start(addr string) error {
	s.srvMu.Lock()
	if s.closed {
		s.srvMu.Unlock()
		return nil
	}
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = hs
	s.srvMu.Unlock()

	s.logger.Info("starting API server", "addr", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server. A later Start returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	s.srvMu.Lock()
	s.closed = true
	hs := s.httpServer
	s.srvMu.Unlock()

	if hs == nil {
		return nil
	}
	return hs.Shutdown(ctx)
}

// latest returns the memoized report, refreshing it when it is older than
// the TTL. Concurrent callers wait for a single refresh.
func (s *Server) latest(ctx context.Context) (*pipeline.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report != nil && s.ttl > 0 && s.now().Sub(s.reportAt) < s.ttl {
		return s.report, nil
	}
	report, err := s.runner.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	s.report, s.reportAt = report, s.now()
	return report, nil
}
