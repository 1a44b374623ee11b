package server

import "time"

// Default timeouts and limits applied when no option overrides them.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20  // 1MB
	DefaultMaxBodyBytes    = 10 << 20 // 10MB
)
