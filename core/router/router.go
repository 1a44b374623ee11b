package router

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrymomot/webserv/core/httpx"
)

// Kind selects a route's handling strategy.
type Kind string

const (
	KindStatic   Kind = "static"
	KindCGI      Kind = "cgi"
	KindRedirect Kind = "redirect"
	KindError    Kind = "error"
)

// Route is one configured routing rule. The zero fields irrelevant to a
// route's Kind are ignored.
type Route struct {
	// Pattern is an exact path ("/health") or, with a trailing slash, a
	// prefix ("/cgi-bin/").
	Pattern string
	// Methods whitelists request methods; empty allows all.
	Methods []httpx.Method
	Kind    Kind

	// Static
	Root        string
	DefaultFile string
	// UploadDir, relative to Root, enables POST uploads into it and DELETE
	// of files under it on this route. Empty disables both.
	UploadDir string
	// Autoindex answers directory requests with a generated listing when no
	// DefaultFile is configured.
	Autoindex bool

	// CGI
	Program string
	Dir     string

	// Redirect / Error
	Location string
	Status   int
}

var (
	// ErrEmptyRoutes is returned when constructing a router without routes.
	ErrEmptyRoutes = errors.New("route table is empty")
	// ErrInvalidRoute is returned for a route whose pattern or target is
	// malformed.
	ErrInvalidRoute = errors.New("invalid route")
)

// Router resolves requests against an immutable route table.
type Router struct {
	routes []Route
}

// New validates the route table and returns a router over it. The slice is
// copied; callers cannot mutate routing after construction.
func New(routes []Route) (*Router, error) {
	if len(routes) == 0 {
		return nil, ErrEmptyRoutes
	}
	for i, rt := range routes {
		if rt.Pattern == "" || rt.Pattern[0] != '/' {
			return nil, fmt.Errorf("%w: route %d has bad pattern %q", ErrInvalidRoute, i, rt.Pattern)
		}
		switch rt.Kind {
		case KindStatic:
			if rt.Root == "" {
				return nil, fmt.Errorf("%w: static route %q has no root", ErrInvalidRoute, rt.Pattern)
			}
			if strings.Contains(rt.UploadDir, "..") {
				return nil, fmt.Errorf("%w: static route %q has bad upload dir %q", ErrInvalidRoute, rt.Pattern, rt.UploadDir)
			}
		case KindCGI:
			if rt.Program == "" {
				return nil, fmt.Errorf("%w: cgi route %q has no program", ErrInvalidRoute, rt.Pattern)
			}
		case KindRedirect:
			if rt.Location == "" {
				return nil, fmt.Errorf("%w: redirect route %q has no location", ErrInvalidRoute, rt.Pattern)
			}
		case KindError:
			if rt.Status < 100 || rt.Status > 599 {
				return nil, fmt.Errorf("%w: error route %q has bad status %d", ErrInvalidRoute, rt.Pattern, rt.Status)
			}
		default:
			return nil, fmt.Errorf("%w: route %q has unknown kind %q", ErrInvalidRoute, rt.Pattern, rt.Kind)
		}
	}
	return &Router{routes: slices.Clone(routes)}, nil
}

// Resolve maps a request to a handling decision. Pure: no side effects, no
// locking, no filesystem access; the route table never changes after New.
func (r *Router) Resolve(req *httpx.Request) Decision {
	if hasDotDot(req.Path) {
		return ServeError{Status: http.StatusForbidden}
	}
	reqPath := path.Clean(req.Path)

	for _, rt := range r.routes {
		if !matches(rt.Pattern, reqPath) {
			continue
		}
		if len(rt.Methods) > 0 && !slices.Contains(rt.Methods, req.Method) {
			return ServeError{Status: http.StatusMethodNotAllowed}
		}

		switch rt.Kind {
		case KindStatic:
			return staticDecision(rt, req.Method, reqPath)
		case KindCGI:
			return InvokeCGI{
				Program:    rt.Program,
				Dir:        rt.Dir,
				ScriptName: strings.TrimSuffix(rt.Pattern, "/"),
				PathInfo:   reqPath,
			}
		case KindRedirect:
			status := rt.Status
			if status == 0 {
				status = http.StatusMovedPermanently
			}
			return Redirect{Location: rt.Location, Status: status}
		case KindError:
			return ServeError{Status: rt.Status}
		}
	}
	return ServeError{Status: http.StatusNotFound}
}

// staticDecision resolves a static route. GET/HEAD serve files; POST stores
// the body into the route's upload dir; DELETE removes a previously
// uploaded file. POST and DELETE on a route without an upload dir are 405.
func staticDecision(rt Route, method httpx.Method, reqPath string) Decision {
	switch method {
	case httpx.MethodPost:
		if rt.UploadDir == "" {
			return ServeError{Status: http.StatusMethodNotAllowed}
		}
		return SaveUpload{
			Dir:       filepath.Join(rt.Root, filepath.FromSlash(rt.UploadDir)),
			URLPrefix: strings.TrimSuffix(rt.Pattern, "/"),
		}
	case httpx.MethodDelete:
		if rt.UploadDir == "" {
			return ServeError{Status: http.StatusMethodNotAllowed}
		}
		return deleteDecision(rt, reqPath)
	}

	full, ok := joinUnderRoot(rt.Root, relPath(rt.Pattern, reqPath))
	if !ok {
		return ServeError{Status: http.StatusForbidden}
	}
	return ServeStatic{
		Path:        full,
		URLPath:     reqPath,
		DefaultFile: rt.DefaultFile,
		Autoindex:   rt.Autoindex,
	}
}

// deleteDecision targets a file under the route's upload dir. Deleting the
// upload dir itself, or anything escaping it, is forbidden.
func deleteDecision(rt Route, reqPath string) Decision {
	rel := relPath(rt.Pattern, reqPath)
	if rel == "" {
		return ServeError{Status: http.StatusForbidden}
	}
	base := filepath.Join(rt.Root, filepath.FromSlash(rt.UploadDir))
	full, ok := joinUnderRoot(base, rel)
	if !ok || full == filepath.Clean(base) {
		return ServeError{Status: http.StatusForbidden}
	}
	return RemoveFile{Path: full}
}

// relPath strips the route pattern prefix from the cleaned request path.
func relPath(pattern, reqPath string) string {
	rel := strings.TrimPrefix(reqPath, strings.TrimSuffix(pattern, "/"))
	return strings.TrimPrefix(rel, "/")
}

// joinUnderRoot joins rel beneath root and reports whether the cleaned
// result is still confined to root.
func joinUnderRoot(root, rel string) (string, bool) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(root)
	if full != cleanRoot && !strings.HasPrefix(full, cleanRoot+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// matches reports whether pattern covers reqPath: exact match, or prefix
// match for patterns with a trailing slash.
func matches(pattern, reqPath string) bool {
	if strings.HasSuffix(pattern, "/") {
		return reqPath == strings.TrimSuffix(pattern, "/") || strings.HasPrefix(reqPath, pattern)
	}
	return reqPath == pattern
}

// hasDotDot reports whether any path segment is "..". Rejected outright,
// before cleaning, so an escape can never be normalized away.
func hasDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
