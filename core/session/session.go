package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is a snapshot of one server-side session. The Store hands out
// copies; mutations go through Store.Put or Store.Update, never through a
// snapshot.
type Session struct {
	// ID is the stable internal identifier, used in logs. It is never sent
	// to the client.
	ID uuid.UUID

	// Token is the cryptographically secure identifier carried by the
	// session cookie (32 bytes base64url).
	Token string

	// Values holds the session's key-value data.
	Values map[string]string

	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpiresAt      time.Time
}

// IsExpired reports whether the session has passed its expiry.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// snapshot returns a deep copy safe to hand outside the store.
func (s Session) snapshot() Session {
	out := s
	out.Values = maps.Clone(s.Values)
	return out
}

// newSession allocates a session with a freshly generated token.
func newSession(ttl time.Duration) (Session, error) {
	token, err := generateToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session{
		ID:             uuid.New(),
		Token:          token,
		Values:         make(map[string]string),
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(ttl),
	}, nil
}

// generateToken creates a cryptographically secure random token using
// 32 bytes (256 bits) encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
