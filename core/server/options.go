package server

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/webserv/core/cgi"
	"github.com/dmitrymomot/webserv/core/cookie"
	"github.com/dmitrymomot/webserv/core/router"
	"github.com/dmitrymomot/webserv/core/session"
)

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger used for connection and request events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRouter sets the route table the server dispatches against.
func WithRouter(rt *router.Router) Option {
	return func(s *Server) {
		s.router = rt
	}
}

// WithSessions sets the session store.
func WithSessions(store *session.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithExecutor sets the CGI executor.
func WithExecutor(exec *cgi.Executor) Option {
	return func(s *Server) {
		if exec != nil {
			s.executor = exec
		}
	}
}

// WithCookieConfig sets the session cookie name and attributes.
func WithCookieConfig(cfg cookie.Config) Option {
	return func(s *Server) {
		s.cookieCfg = cfg
	}
}

// WithErrorPages sets the error-page registry.
func WithErrorPages(pages *ErrorPages) Option {
	return func(s *Server) {
		if pages != nil {
			s.errorPages = pages
		}
	}
}

// WithReadTimeout sets the per-request client read deadline.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.readTimeout = timeout
		}
	}
}

// WithWriteTimeout sets the per-response client write deadline.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.writeTimeout = timeout
		}
	}
}

// WithIdleTimeout sets how long a keep-alive connection may sit between
// requests.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.idleTimeout = timeout
		}
	}
}

// WithShutdownTimeout sets how long Stop waits for in-flight connections.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

// WithMaxHeaderBytes bounds the request line plus header block.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxHeaderBytes = n
		}
	}
}

// WithMaxBodyBytes bounds the request body.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}
