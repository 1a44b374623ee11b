package session

import (
	"context"
	"sync"
	"time"
)

// Store is the concurrent session registry. All methods are safe for
// concurrent use. The map mutex is never held across user code or blocking
// I/O; per-entry mutexes serialize writers on the same session token.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl           time.Duration
	sweepInterval time.Duration
	touchInterval time.Duration
}

type entry struct {
	mu   sync.Mutex
	sess Session
}

// New creates an empty store with the given options applied over defaults.
func New(opts ...Option) *Store {
	cfg := DefaultConfig()
	s := &Store{
		entries:       make(map[string]*entry),
		ttl:           cfg.TTL,
		sweepInterval: cfg.SweepInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig creates a store from configuration. Additional options can
// override config values.
func NewFromConfig(cfg Config, opts ...Option) *Store {
	combined := []Option{
		WithTTL(cfg.TTL),
		WithSweepInterval(cfg.SweepInterval),
		WithTouchInterval(cfg.TouchInterval),
	}
	combined = append(combined, opts...)
	return New(combined...)
}

// GetOrCreate returns the live session for token with refreshed timestamps,
// or allocates a new one when token is empty, unknown, or expired. The
// second result reports whether a new token must be sent back to the client
// via Set-Cookie.
func (s *Store) GetOrCreate(token string) (Session, bool, error) {
	if token != "" {
		if sess, ok := s.touch(token); ok {
			return sess, false, nil
		}
	}

	sess, err := newSession(s.ttl)
	if err != nil {
		return Session{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[sess.Token]; exists {
		return Session{}, false, ErrTokenCollision
	}
	s.entries[sess.Token] = &entry{sess: sess}
	return sess.snapshot(), true, nil
}

// touch refreshes a live session's timestamps and returns a snapshot.
func (s *Store) touch(token string) (Session, bool) {
	e := s.lookup(token)
	if e == nil {
		return Session{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.IsExpired() {
		return Session{}, false
	}
	now := time.Now()
	e.sess.LastAccessedAt = now
	if s.touchInterval == 0 || now.Sub(e.sess.ExpiresAt.Add(-s.ttl)) >= s.touchInterval {
		e.sess.ExpiresAt = now.Add(s.ttl)
	}
	return e.sess.snapshot(), true
}

// Get reads a single value from the session's data.
func (s *Store) Get(token, key string) (string, error) {
	e := s.lookup(token)
	if e == nil {
		return "", ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.IsExpired() {
		return "", ErrExpired
	}
	return e.sess.Values[key], nil
}

// Put writes a single value into the session's data.
func (s *Store) Put(token, key, value string) error {
	return s.Update(token, func(values map[string]string) {
		values[key] = value
	})
}

// Update runs fn against the session's data under the entry lock, giving
// read-modify-write atomicity per session token. fn must not block on I/O.
func (s *Store) Update(token string, fn func(values map[string]string)) error {
	e := s.lookup(token)
	if e == nil {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.IsExpired() {
		return ErrExpired
	}
	fn(e.sess.Values)
	e.sess.LastAccessedAt = time.Now()
	return nil
}

// Invalidate removes the session immediately.
func (s *Store) Invalidate(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[token]; !ok {
		return ErrNotFound
	}
	delete(s.entries, token)
	return nil
}

// DeleteExpired removes all sessions whose expiry has passed and returns the
// count of deleted sessions. Invoked by the background sweeper, never inline
// on the request path.
func (s *Store) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for token, e := range s.entries {
		e.mu.Lock()
		expired := !e.sess.ExpiresAt.After(now)
		e.mu.Unlock()
		if expired {
			delete(s.entries, token)
			deleted++
		}
	}
	return deleted
}

// Len returns the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Run returns an errgroup-compatible function that sweeps expired sessions
// on the configured interval until the context is canceled.
func (s *Store) Run(ctx context.Context) func() error {
	return func() error {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				s.DeleteExpired(now)
			}
		}
	}
}

func (s *Store) lookup(token string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[token]
}
