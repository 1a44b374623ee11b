package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/webserv/core/cgi"
	"github.com/dmitrymomot/webserv/core/cookie"
	"github.com/dmitrymomot/webserv/core/httpx"
	"github.com/dmitrymomot/webserv/core/router"
	"github.com/dmitrymomot/webserv/pkg/logger"
)

// serveConn handles one connection: sequential requests, answered strictly
// in arrival order, until close is requested, a timeout fires, or parsing
// fails.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	br := bufio.NewReader(conn)
	limits := httpx.Limits{
		MaxHeaderBytes: s.maxHeaderBytes,
		MaxBodyBytes:   s.maxBodyBytes,
	}

	for {
		// The idle deadline covers waiting for the next request; the read
		// deadline takes over once bytes start flowing.
		_ = conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		if _, err := br.Peek(1); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))

		req, err := httpx.ReadRequest(br, limits)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrDeadlineExceeded) {
				s.logger.Debug("request parse failed", logger.Remote(remote), logger.Error(err))
				s.writeResponse(conn, parseErrorResponse(s.errorPages, err), true, true)
			}
			return
		}
		req.RemoteAddr = remote

		start := time.Now()
		resp, closeAfter := s.handle(ctx, req)
		closeAfter = closeAfter || req.WantsClose()

		s.logger.Info("request",
			logger.Remote(remote),
			logger.Method(string(req.Method)),
			logger.Path(req.Path),
			logger.Status(resp.StatusCode),
			logger.Elapsed(start))

		if !s.writeResponse(conn, resp, req.Method != httpx.MethodHead, closeAfter) {
			return
		}
		if closeAfter {
			return
		}
	}
}

// writeResponse writes resp to the connection under the write deadline and
// reports whether the connection is still usable.
func (s *Server) writeResponse(conn net.Conn, resp *httpx.Response, includeBody, closing bool) bool {
	if closing {
		resp.Header.Set("Connection", "close")
	}
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := resp.WriteTo(conn, includeBody); err != nil {
		s.logger.Debug("response write failed", logger.Error(err))
		return false
	}
	return true
}

// handle runs the per-request pipeline. It is the single place that maps
// component errors to HTTP statuses; nothing below it touches the socket.
// A panic is recovered into a best-effort 500 and a connection close.
func (s *Server) handle(ctx context.Context, req *httpx.Request) (resp *httpx.Response, closeAfter bool) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic in request handler",
				slog.Any("panic", rec),
				logger.Path(req.Path),
				slog.String("stack", string(debug.Stack())))
			resp = s.errorPages.Response(http.StatusInternalServerError)
			closeAfter = true
		}
	}()

	cookies := cookie.ParseHeader(req.Header.Get("Cookie"))
	sess, isNew, err := s.sessions.GetOrCreate(cookies[s.cookieCfg.Name])
	if err != nil {
		s.logger.Error("session issuance failed", logger.Error(err))
		return s.errorPages.Response(http.StatusInternalServerError), false
	}

	switch d := s.router.Resolve(req).(type) {
	case router.ServeStatic:
		resp = s.serveStatic(d)
	case router.InvokeCGI:
		resp = s.serveCGI(ctx, req, d, sess.Token)
	case router.SaveUpload:
		resp = s.serveUpload(req, d)
	case router.RemoveFile:
		resp = s.removeFile(d)
	case router.Redirect:
		resp = httpx.NewResponse(d.Status)
		resp.Header.Add("Location", d.Location)
	case router.ServeError:
		resp = s.errorPages.Response(d.Status)
	default:
		resp = s.errorPages.Response(http.StatusInternalServerError)
	}

	if isNew {
		c := cookie.New(s.cookieCfg.Name, sess.Token, cookie.FromConfig(s.cookieCfg)...)
		resp.Header.Add("Set-Cookie", c.String())
	}
	return resp, false
}

func (s *Server) serveCGI(ctx context.Context, req *httpx.Request, d router.InvokeCGI, token string) *httpx.Response {
	inv := s.executor.NewInvocation(req, d, token)
	resp, err := s.executor.Execute(ctx, inv)
	if err != nil {
		s.logger.Error("cgi execution failed",
			slog.String("program", d.Program),
			logger.Path(req.Path),
			logger.Error(err))
		if errors.Is(err, cgi.ErrTimeout) {
			return s.errorPages.Response(http.StatusGatewayTimeout)
		}
		return s.errorPages.Response(http.StatusBadGateway)
	}
	return resp
}

// parseErrorResponse maps a request parse failure to its status.
func parseErrorResponse(pages *ErrorPages, err error) *httpx.Response {
	switch {
	case errors.Is(err, httpx.ErrBodyTooLarge):
		return pages.Response(http.StatusRequestEntityTooLarge)
	case errors.Is(err, httpx.ErrHeaderTooLarge):
		return pages.Response(http.StatusRequestHeaderFieldsTooLarge)
	case errors.Is(err, httpx.ErrUnsupportedMethod):
		return pages.Response(http.StatusNotImplemented)
	case errors.Is(err, httpx.ErrUnsupportedProto):
		return pages.Response(http.StatusHTTPVersionNotSupported)
	default:
		return pages.Response(http.StatusBadRequest)
	}
}
