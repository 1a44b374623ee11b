package httpx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
)

// ParseMethod validates a method token against the supported set.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodDelete, MethodOptions:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}

// Request is a single parsed HTTP request. It is immutable once returned by
// ReadRequest; components read from it but never write back.
type Request struct {
	Method     Method
	Path       string
	RawQuery   string
	Proto      string
	Header     Header
	Body       []byte
	RemoteAddr string
}

// ContentType returns the Content-Type header value, if any.
func (r *Request) ContentType() string {
	return r.Header.Get("Content-Type")
}

// WantsClose reports whether the connection must be closed after this
// exchange: an explicit "Connection: close", or HTTP/1.0 without an explicit
// keep-alive.
func (r *Request) WantsClose() bool {
	conn := strings.ToLower(r.Header.Get("Connection"))
	if conn == "close" {
		return true
	}
	if r.Proto == "HTTP/1.0" {
		return conn != "keep-alive"
	}
	return false
}

// Limits bounds how much of a single request ReadRequest will accept.
// Zero values mean "no limit"; the server always sets both.
type Limits struct {
	MaxHeaderBytes int
	MaxBodyBytes   int64
}

// ReadRequest parses one HTTP/1.1 request from br: request line, header
// block, then exactly Content-Length body bytes. Chunked transfer encoding
// is not supported (the CGI boundary requires a known-length body).
//
// io.EOF is returned untouched when the connection closes cleanly before any
// byte of a request arrives, so callers can tell "client went away" from a
// truncated request.
func ReadRequest(br *bufio.Reader, limits Limits) (*Request, error) {
	budget := limits.MaxHeaderBytes
	limited := limits.MaxHeaderBytes > 0

	line, err := readLine(br, &budget, limited)
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return nil, io.EOF
		}
		return nil, err
	}
	// Tolerate a single stray CRLF between pipelined requests.
	if line == "" {
		line, err = readLine(br, &budget, limited)
		if err != nil {
			return nil, err
		}
	}

	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: bad request line %q", ErrMalformedRequest, line)
	}

	method, err := ParseMethod(parts[0])
	if err != nil {
		return nil, err
	}

	target := parts[1]
	if target == "" || target[0] != '/' {
		return nil, fmt.Errorf("%w: bad request target %q", ErrMalformedRequest, target)
	}
	path, rawQuery, _ := strings.Cut(target, "?")

	proto := parts[2]
	if proto != "HTTP/1.1" && proto != "HTTP/1.0" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProto, proto)
	}

	req := &Request{
		Method:   method,
		Path:     path,
		RawQuery: rawQuery,
		Proto:    proto,
	}

	for {
		line, err := readLine(br, &budget, limited)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("%w: bad header line %q", ErrMalformedRequest, line)
		}
		req.Header.Add(name, strings.TrimSpace(value))
	}

	if req.Header.Has("Transfer-Encoding") {
		return nil, fmt.Errorf("%w: chunked bodies are not supported", ErrMalformedRequest)
	}

	// Multiple Content-Length fields with differing values are a smuggling
	// vector on reused connections; identical repeats are tolerated.
	cls := req.Header.Values("Content-Length")
	if len(cls) > 1 {
		for _, v := range cls[1:] {
			if v != cls[0] {
				return nil, fmt.Errorf("%w: conflicting Content-Length values", ErrMalformedRequest)
			}
		}
	}

	if cl := req.Header.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad Content-Length %q", ErrMalformedRequest, cl)
		}
		if limits.MaxBodyBytes > 0 && n > limits.MaxBodyBytes {
			return nil, ErrBodyTooLarge
		}
		if n > 0 {
			body := make([]byte, n)
			if _, err := io.ReadFull(br, body); err != nil {
				return nil, fmt.Errorf("%w: truncated body: %w", ErrMalformedRequest, err)
			}
			req.Body = body
		}
	}

	return req, nil
}

// readLine reads a CRLF- or LF-terminated line, charging its length against
// the shared header budget when one is set.
func readLine(br *bufio.Reader, budget *int, limited bool) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return "", fmt.Errorf("%w: truncated header", ErrMalformedRequest)
		}
		return line, err
	}
	if limited {
		*budget -= len(line)
		if *budget < 0 {
			return "", ErrHeaderTooLarge
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
