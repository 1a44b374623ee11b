package session

import "errors"

var (
	// ErrNotFound is returned when no session exists for the given token.
	// The server loop treats it as "issue a fresh session", never as a
	// client-visible error.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a session exists but has passed its expiry.
	ErrExpired = errors.New("session has expired")
	// ErrTokenGeneration is returned when the random source fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
	// ErrTokenCollision is returned when a freshly generated token already
	// exists in the store. Tokens carry 256 bits of entropy, so this points
	// at a broken random source rather than bad luck.
	ErrTokenCollision = errors.New("session token collision")
)
