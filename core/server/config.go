package server

import "time"

// Config holds server configuration with environment variable support.
type Config struct {
	// Listen address
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Client socket timeouts; independent of the CGI deadline.
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request limits
	MaxHeaderBytes int   `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"` // 1MB
	MaxBodyBytes   int64 `env:"SERVER_MAX_BODY_BYTES" envDefault:"10485760"`  // 10MB
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
		MaxBodyBytes:    DefaultMaxBodyBytes,
	}
}

// NewFromConfig creates a Server from configuration. Additional options can
// override config values.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	configOpts := make([]Option, 0)
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxHeaderBytes > 0 {
		configOpts = append(configOpts, WithMaxHeaderBytes(cfg.MaxHeaderBytes))
	}
	if cfg.MaxBodyBytes > 0 {
		configOpts = append(configOpts, WithMaxBodyBytes(cfg.MaxBodyBytes))
	}

	// Append user-provided options to override config
	configOpts = append(configOpts, opts...)

	return New(cfg.Addr, configOpts...), nil
}
