// Package logger provides slog attribute helpers with consistent keys.
// Helpers return the empty Attr for nil/zero input, so call sites need no
// nil checks.
package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Status creates an attribute for HTTP status codes.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Remote creates an attribute for the client address.
func Remote(addr string) slog.Attr {
	if addr == "" {
		return slog.Attr{}
	}
	return slog.String("remote", addr)
}
