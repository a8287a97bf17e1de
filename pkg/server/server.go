// Package server is the thin HTTP adapter in front of the simulator core:
// routing, request parsing, simulated-time extraction, and status-code
// serialization. All lifecycle semantics live below it in the service.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/getlbsim/lbsim/pkg/config"
	"github.com/getlbsim/lbsim/pkg/logging"
	"github.com/getlbsim/lbsim/pkg/service"
)

// SimulatedTimeHeader carries the caller-supplied synthetic time, either as
// unix seconds or RFC3339. Requests without it are stamped from the server
// clock.
const SimulatedTimeHeader = "X-Simulated-Time"

// Server hosts the simulator API over HTTP.
type Server struct {
	cfg        *config.Config
	svc        *service.Service
	log        *slog.Logger
	clock      func() time.Time
	metrics    *Metrics
	httpServer *http.Server

	mu        sync.RWMutex
	running   bool
	startTime time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock sets the fallback clock used for requests that carry no
// simulated-time header.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates a Server for the given configuration and service.
func New(cfg *config.Config, svc *service.Service, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:     cfg,
		svc:     svc,
		log:     logging.Nop(),
		clock:   time.Now,
		metrics: NewMetrics(),
	}
	if fixed, ok := cfg.FixedStart(); ok {
		s.clock = func() time.Time { return fixed }
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("POST /v1.0/{tenant}/loadbalancers", s.metrics.instrument("create_balancer", s.handleCreate))
	mux.HandleFunc("GET /v1.0/{tenant}/loadbalancers", s.metrics.instrument("list_balancers", s.handleList))
	mux.HandleFunc("GET /v1.0/{tenant}/loadbalancers/{lbID}", s.metrics.instrument("get_balancer", s.handleGet))
	mux.HandleFunc("DELETE /v1.0/{tenant}/loadbalancers/{lbID}", s.metrics.instrument("delete_balancer", s.handleDelete))

	mux.HandleFunc("POST /v1.0/{tenant}/loadbalancers/{lbID}/nodes", s.metrics.instrument("add_nodes", s.handleAddNodes))
	mux.HandleFunc("GET /v1.0/{tenant}/loadbalancers/{lbID}/nodes", s.metrics.instrument("list_nodes", s.handleListNodes))
	mux.HandleFunc("GET /v1.0/{tenant}/loadbalancers/{lbID}/nodes/{nodeID}", s.metrics.instrument("get_node", s.handleGetNode))
	mux.HandleFunc("DELETE /v1.0/{tenant}/loadbalancers/{lbID}/nodes/{nodeID}", s.metrics.instrument("delete_node", s.handleDeleteNode))

	return mux
}

// Start begins serving in the background. It returns once the listener is
// handed to the HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true
	s.startTime = time.Now()
	srv := s.httpServer
	s.mu.Unlock()

	s.log.Info("simulator listening", "addr", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// resolveNow returns the synthetic time for a request: the simulated-time
// header when present and parsable, otherwise the server clock.
func (s *Server) resolveNow(r *http.Request) time.Time {
	v := r.Header.Get(SimulatedTimeHeader)
	if v == "" {
		return s.clock()
	}
	if t, err := parseSimulatedTime(v); err == nil {
		return t
	}
	s.log.Warn("ignoring unparsable simulated time", "value", v)
	return s.clock()
}
