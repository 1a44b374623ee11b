package session

import "time"

// Config holds session store configuration with environment variable support.
type Config struct {
	// TTL is the idle expiry: sessions not accessed for this long are swept.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	// SweepInterval is how often the background sweeper runs.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
	// TouchInterval throttles expiry refreshes on access; 0 refreshes on
	// every access.
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"0"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTL:           30 * time.Minute,
		SweepInterval: 5 * time.Minute,
	}
}

// Option is a functional option for configuring the store.
type Option func(*Store)

// WithTTL sets the session idle expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepInterval sets the background sweep period.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithTouchInterval sets the minimum time between expiry refreshes on
// access. Zero refreshes on every access.
func WithTouchInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval >= 0 {
			s.touchInterval = interval
		}
	}
}
