package httpx

import "errors"

var (
	// ErrMalformedRequest is returned when the request line or a header line
	// does not follow HTTP/1.1 grammar.
	ErrMalformedRequest = errors.New("malformed HTTP request")
	// ErrUnsupportedMethod is returned for a method outside the supported set.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	// ErrUnsupportedProto is returned for protocol versions other than
	// HTTP/1.0 and HTTP/1.1.
	ErrUnsupportedProto = errors.New("unsupported HTTP protocol version")
	// ErrHeaderTooLarge is returned when the request line plus header block
	// exceeds the configured limit.
	ErrHeaderTooLarge = errors.New("request header block too large")
	// ErrBodyTooLarge is returned when Content-Length exceeds the configured
	// body limit.
	ErrBodyTooLarge = errors.New("request body too large")
)
