package server

import "errors"

var (
	// ErrServerAlreadyRunning is returned by Start on a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")
	// ErrMissingAddress is returned when the listen address is not provided.
	ErrMissingAddress = errors.New("server address is required")
	// ErrMissingRouter is returned when no router is configured.
	ErrMissingRouter = errors.New("router is required")
)
