package server

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/webserv/core/httpx"
	"github.com/dmitrymomot/webserv/core/router"
	"github.com/dmitrymomot/webserv/pkg/logger"
)

// serveStatic answers a file or directory request. Directories serve the
// route's default file when one is configured, a generated listing when
// autoindex is on, and 403 otherwise.
func (s *Server) serveStatic(d router.ServeStatic) *httpx.Response {
	info, err := os.Stat(d.Path)
	if err != nil {
		return s.fileErrorResponse(d.Path, err)
	}
	if info.IsDir() {
		if d.DefaultFile != "" {
			return s.serveFile(filepath.Join(d.Path, d.DefaultFile))
		}
		if d.Autoindex {
			return s.serveAutoindex(d)
		}
		return s.errorPages.Response(http.StatusForbidden)
	}
	return s.serveFile(d.Path)
}

func (s *Server) serveFile(path string) *httpx.Response {
	body, err := os.ReadFile(path)
	if err != nil {
		return s.fileErrorResponse(path, err)
	}

	resp := httpx.NewResponse(http.StatusOK)
	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	resp.Header.Add("Content-Type", ctype)
	resp.Body = body
	return resp
}

func (s *Server) serveAutoindex(d router.ServeStatic) *httpx.Response {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return s.fileErrorResponse(d.Path, err)
	}

	prefix := strings.TrimSuffix(d.URLPath, "/")
	var b strings.Builder
	fmt.Fprintf(&b, "<html><body><h1>Index of %s</h1><ul>", html.EscapeString(d.URLPath))
	for _, e := range entries {
		name := html.EscapeString(e.Name())
		fmt.Fprintf(&b, "<li><a href=\"%s/%s\">%s</a></li>", prefix, name, name)
	}
	b.WriteString("</ul></body></html>")

	resp := httpx.NewResponse(http.StatusOK)
	resp.Header.Add("Content-Type", "text/html; charset=utf-8")
	resp.Body = []byte(b.String())
	return resp
}

// serveUpload stores the request body under the route's upload dir:
// multipart/form-data bodies as one file per named file part, anything else
// as a single timestamped file.
func (s *Server) serveUpload(req *httpx.Request, d router.SaveUpload) *httpx.Response {
	if len(req.Body) == 0 {
		return s.errorPages.Response(http.StatusBadRequest)
	}

	var (
		saved  []string
		status int
	)
	ctype, params, err := mime.ParseMediaType(req.ContentType())
	if err == nil && ctype == "multipart/form-data" {
		saved, status = s.saveMultipart(d.Dir, req.Body, params["boundary"])
	} else {
		saved, status = s.saveRawBody(d.Dir, ctype, req.Body)
	}
	if status != 0 {
		return s.errorPages.Response(status)
	}
	if len(saved) == 0 {
		return s.errorPages.Response(http.StatusBadRequest)
	}

	resp := httpx.NewResponse(http.StatusCreated)
	resp.Header.Add("Content-Type", "text/plain; charset=utf-8")
	if len(saved) == 1 {
		resp.Header.Add("Location", d.URLPrefix+"/"+saved[0])
		resp.Body = []byte(fmt.Sprintf("File saved as %s", saved[0]))
	} else {
		resp.Body = []byte(fmt.Sprintf("Saved files: %s", strings.Join(saved, ", ")))
	}
	return resp
}

func (s *Server) saveMultipart(dir string, body []byte, boundary string) ([]string, int) {
	if boundary == "" {
		return nil, http.StatusBadRequest
	}

	var saved []string
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, http.StatusBadRequest
		}
		if part.FileName() == "" {
			// Plain form field, nothing to store.
			continue
		}
		// Base strips any client-supplied directory components.
		name := filepath.Base(part.FileName())
		if name == "." || name == string(filepath.Separator) {
			continue
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return nil, http.StatusBadRequest
		}
		if status := s.writeUpload(filepath.Join(dir, name), data); status != 0 {
			return nil, status
		}
		saved = append(saved, name)
	}
	return saved, 0
}

func (s *Server) saveRawBody(dir, ctype string, body []byte) ([]string, int) {
	name := fmt.Sprintf("uploaded_%d%s", time.Now().UnixMilli(), extensionFor(ctype))
	if status := s.writeUpload(filepath.Join(dir, name), body); status != 0 {
		return nil, status
	}
	return []string{name}, 0
}

func (s *Server) writeUpload(path string, data []byte) int {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return http.StatusForbidden
		}
		s.logger.Error("upload write failed", slog.String("file", path), logger.Error(err))
		return http.StatusInternalServerError
	}
	return 0
}

// removeFile deletes a previously uploaded file. Directories are never
// deleted through this path.
func (s *Server) removeFile(d router.RemoveFile) *httpx.Response {
	info, err := os.Stat(d.Path)
	if err != nil {
		return s.fileErrorResponse(d.Path, err)
	}
	if info.IsDir() {
		return s.errorPages.Response(http.StatusForbidden)
	}
	if err := os.Remove(d.Path); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return s.errorPages.Response(http.StatusForbidden)
		}
		s.logger.Error("upload delete failed", slog.String("file", d.Path), logger.Error(err))
		return s.errorPages.Response(http.StatusInternalServerError)
	}
	return httpx.NewResponse(http.StatusNoContent)
}

func (s *Server) fileErrorResponse(path string, err error) *httpx.Response {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s.errorPages.Response(http.StatusNotFound)
	case errors.Is(err, os.ErrPermission):
		return s.errorPages.Response(http.StatusForbidden)
	default:
		s.logger.Error("file access failed", slog.String("file", path), logger.Error(err))
		return s.errorPages.Response(http.StatusInternalServerError)
	}
}

// extensionFor gives stored raw uploads a filename extension matching their
// declared content type.
func extensionFor(ctype string) string {
	switch ctype {
	case "application/json":
		return ".json"
	case "application/pdf":
		return ".pdf"
	case "application/xml":
		return ".xml"
	case "application/zip":
		return ".zip"
	case "image/gif":
		return ".gif"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/svg+xml":
		return ".svg"
	case "text/css":
		return ".css"
	case "text/html":
		return ".html"
	case "text/plain":
		return ".txt"
	default:
		return ""
	}
}
