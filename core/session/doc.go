// Package session provides the in-memory session registry correlated with
// client cookies. Sessions live for the process lifetime only; there is no
// persistence across restarts.
//
// The registry is an explicitly owned concurrent map: construct one Store at
// startup and pass it by reference into every component that needs it. Each
// entry carries its own mutex, so two requests bearing the same session
// cookie serialize their writes against each other without contending with
// unrelated sessions.
//
// Tokens are 32 bytes from crypto/rand, base64url-encoded. A token collision
// on insert is reported as ErrTokenCollision and never silently overwritten.
//
// Basic usage:
//
//	store := session.New(session.WithTTL(30 * time.Minute))
//
//	sess, isNew, err := store.GetOrCreate(tokenFromCookie)
//	if isNew {
//		// send Set-Cookie with sess.Token
//	}
//
// Expired entries are removed by a periodic sweep, never inline on the
// request path:
//
//	g.Go(store.Run(ctx))
package session
