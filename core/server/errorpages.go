package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrymomot/webserv/core/httpx"
)

// ErrorPages maps HTTP status codes to page bodies loaded once at startup.
// A nil registry is valid and always falls back to a minimal plain-text
// status line.
type ErrorPages struct {
	pages map[int][]byte
}

// LoadErrorPages reads the configured files eagerly so a missing page is a
// startup error, not a mid-request surprise.
func LoadErrorPages(paths map[int]string) (*ErrorPages, error) {
	pages := make(map[int][]byte, len(paths))
	for status, path := range paths {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error page for status %d: %w", status, err)
		}
		pages[status] = body
	}
	return &ErrorPages{pages: pages}, nil
}

// Response builds the error response for a status: the configured page if
// one exists, otherwise a plain-text status line.
func (p *ErrorPages) Response(status int) *httpx.Response {
	resp := httpx.NewResponse(status)
	if p != nil {
		if body, ok := p.pages[status]; ok {
			resp.Header.Add("Content-Type", "text/html; charset=utf-8")
			resp.Body = body
			return resp
		}
	}
	resp.Header.Add("Content-Type", "text/plain; charset=utf-8")
	resp.Body = []byte(fmt.Sprintf("%d %s\n", status, http.StatusText(status)))
	return resp
}
