package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/dmitrymomot/webserv/core/cgi"
	"github.com/dmitrymomot/webserv/core/cookie"
	"github.com/dmitrymomot/webserv/core/router"
	"github.com/dmitrymomot/webserv/core/session"
)

// Server accepts connections and serves HTTP/1.1 requests over them.
// Safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	addr     string
	listener net.Listener
	conns    sync.WaitGroup
	running  bool

	logger *slog.Logger

	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	maxHeaderBytes  int
	maxBodyBytes    int64

	router     *router.Router
	sessions   *session.Store
	executor   *cgi.Executor
	cookieCfg  cookie.Config
	errorPages *ErrorPages
}

// New creates a server listening on addr with the given options. A router
// must be supplied via WithRouter before Start. The session store and CGI
// executor default to fresh instances wired together when not provided.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:            addr,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		maxBodyBytes:    DefaultMaxBodyBytes,
		cookieCfg:       cookie.DefaultConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sessions == nil {
		s.sessions = session.New()
	}
	if s.executor == nil {
		s.executor = cgi.New(
			cgi.WithLogger(s.logger),
			cgi.WithSessions(s.sessions),
		)
	}

	return s
}

// Start binds the listener and blocks until the context is canceled or an
// accept error occurs. Returns context.Err() when the context is canceled.
// Use Stop() for graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	if s.router == nil {
		s.mu.Unlock()
		return ErrMissingRouter
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = ln
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "starting server", slog.String("addr", ln.Addr().String()))
		errCh <- s.acceptLoop(ctx, ln)
	}()

	select {
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Addr returns the bound listener address, or nil before Start. Useful with
// ":0" listen addresses.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and waits up to the shutdown timeout for
// in-flight connections to drain. Returns immediately if the server is not
// running.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running || s.listener == nil {
		s.mu.Unlock()
		return nil
	}
	s.logger.Info("shutting down server gracefully", slog.Duration("timeout", s.shutdownTimeout))
	err := s.listener.Close()
	s.running = false
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server shutdown complete")
	case <-time.After(s.shutdownTimeout):
		s.logger.Warn("server shutdown timed out with connections in flight")
	}
	return err
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// The returned function starts the server, monitors context cancellation,
// and performs graceful shutdown when the context is canceled.
func (s *Server) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			if stopErr := s.Stop(); stopErr != nil {
				s.logger.Error("failed to stop server during context cancellation", slog.Any("error", stopErr))
			}
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serveConn(ctx, conn)
		}()
	}
}
