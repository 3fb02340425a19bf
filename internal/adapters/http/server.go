package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
)

// Server serves the project API until its context is canceled.
type Server struct {
	srv    *http.Server
	logger *slog.Logger

	// base is the parent of every request context. Canceling it makes
	// in-flight transactions stop at the next step boundary and roll back.
	base       context.Context
	cancelBase context.CancelFunc

	ready chan struct{}
	mu    sync.Mutex
	addr  string
}

// NewServer creates a Server for cfg. Nothing listens until Run.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		logger:     logger,
		base:       base,
		cancelBase: cancel,
		ready:      make(chan struct{}),
		addr:       net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
	}
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return s.base },
	}
	return s
}

// Run listens and serves until ctx is done, then stops accepting connections
// and waits up to drain for in-flight requests. Requests still running after
// drain have their contexts canceled and get one more drain period to roll
// back and respond. Run returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context, drain time.Duration) error {
	defer s.cancelBase()

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.srv.Serve(ln) }()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("draining http server", slog.Duration("drain", drain))
	if err := s.shutdown(drain); err != nil {
		s.logger.Warn("drain period elapsed, canceling in-flight requests", slog.Any("error", err))
		s.cancelBase()
		if err := s.shutdown(drain); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
	}

	<-serveErr
	return nil
}

func (s *Server) shutdown(d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Ready is closed once Run is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once Run is listening and the configured
// address before that.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
