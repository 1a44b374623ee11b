package httpx

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Response is a single HTTP response. It is built up by the router, the CGI
// executor, or the error-page registry, and becomes immutable once handed to
// the server loop for writing.
type Response struct {
	StatusCode int
	Header     Header
	Body       []byte
}

// NewResponse returns a response with the given status and an empty header.
func NewResponse(status int) *Response {
	return &Response{StatusCode: status}
}

// StatusText returns the canonical reason phrase for the response status,
// falling back to "Status" for unknown codes.
func (r *Response) StatusText() string {
	if text := http.StatusText(r.StatusCode); text != "" {
		return text
	}
	return "Status"
}

// WriteTo serializes the response in HTTP/1.1 wire format. Content-Length is
// filled in from the body unless already present. When includeBody is false
// (HEAD requests) the header block is written as usual and the body skipped.
func (r *Response) WriteTo(w io.Writer, includeBody bool) error {
	if _, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", r.StatusCode, r.StatusText()); err != nil {
		return err
	}
	if !r.Header.Has("Content-Length") {
		r.Header.Add("Content-Length", strconv.Itoa(len(r.Body)))
	}
	for _, f := range r.Header.Fields() {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}
	if includeBody && len(r.Body) > 0 {
		if _, err := w.Write(r.Body); err != nil {
			return err
		}
	}
	return nil
}
