package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webserv/core/session"
)

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("no token issues new session", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		sess, isNew, err := store.GetOrCreate("")
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.NotEmpty(t, sess.Token)
		assert.NotZero(t, sess.ID)
	})

	t.Run("sequential anonymous requests get distinct tokens", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		first, _, err := store.GetOrCreate("")
		require.NoError(t, err)
		second, _, err := store.GetOrCreate("")
		require.NoError(t, err)

		assert.NotEqual(t, first.Token, second.Token)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("replayed token returns same session", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		created, _, err := store.GetOrCreate("")
		require.NoError(t, err)
		require.NoError(t, store.Put(created.Token, "user", "alice"))

		got, isNew, err := store.GetOrCreate(created.Token)
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "alice", got.Values["user"])
	})

	t.Run("unknown token issues new session", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		sess, isNew, err := store.GetOrCreate("never-issued")
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.NotEqual(t, "never-issued", sess.Token)
	})

	t.Run("expired token issues new session", func(t *testing.T) {
		t.Parallel()
		store := session.New(session.WithTTL(time.Nanosecond))

		old, _, err := store.GetOrCreate("")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		fresh, isNew, err := store.GetOrCreate(old.Token)
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.NotEqual(t, old.Token, fresh.Token)
	})

	t.Run("access refreshes expiry", func(t *testing.T) {
		t.Parallel()
		store := session.New(session.WithTTL(time.Hour))

		sess, _, err := store.GetOrCreate("")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		touched, isNew, err := store.GetOrCreate(sess.Token)
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.True(t, touched.ExpiresAt.After(sess.ExpiresAt))
		assert.True(t, touched.LastAccessedAt.After(sess.LastAccessedAt))
	})
}

func TestValues(t *testing.T) {
	t.Parallel()

	t.Run("put then get", func(t *testing.T) {
		t.Parallel()
		store := session.New()
		sess, _, err := store.GetOrCreate("")
		require.NoError(t, err)

		require.NoError(t, store.Put(sess.Token, "counter", "1"))
		got, err := store.Get(sess.Token, "counter")
		require.NoError(t, err)
		assert.Equal(t, "1", got)
	})

	t.Run("missing key yields empty string", func(t *testing.T) {
		t.Parallel()
		store := session.New()
		sess, _, err := store.GetOrCreate("")
		require.NoError(t, err)

		got, err := store.Get(sess.Token, "absent")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()
		store := session.New()

		_, err := store.Get("nope", "k")
		assert.ErrorIs(t, err, session.ErrNotFound)
		assert.ErrorIs(t, store.Put("nope", "k", "v"), session.ErrNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		store := session.New(session.WithTTL(time.Nanosecond))
		sess, _, err := store.GetOrCreate("")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		_, err = store.Get(sess.Token, "k")
		assert.ErrorIs(t, err, session.ErrExpired)
	})

	t.Run("snapshot mutation does not leak into store", func(t *testing.T) {
		t.Parallel()
		store := session.New()
		sess, _, err := store.GetOrCreate("")
		require.NoError(t, err)

		sess.Values["injected"] = "x"
		got, err := store.Get(sess.Token, "injected")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	store := session.New()
	sess, _, err := store.GetOrCreate("")
	require.NoError(t, err)

	require.NoError(t, store.Invalidate(sess.Token))
	_, err = store.Get(sess.Token, "k")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, store.Invalidate(sess.Token), session.ErrNotFound)
}

func TestDeleteExpired(t *testing.T) {
	t.Parallel()

	store := session.New(session.WithTTL(time.Minute))
	live, _, err := store.GetOrCreate("")
	require.NoError(t, err)
	_, _, err = store.GetOrCreate("")
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	// Nothing expired yet.
	assert.Zero(t, store.DeleteExpired(time.Now()))

	// Everything expired from the sweeper's point of view.
	deleted := store.DeleteExpired(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 2, deleted)
	assert.Zero(t, store.Len())

	_, err = store.Get(live.Token, "k")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRunSweeper(t *testing.T) {
	t.Parallel()

	store := session.New(
		session.WithTTL(time.Nanosecond),
		session.WithSweepInterval(10*time.Millisecond),
	)
	_, _, err := store.GetOrCreate("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx)() }()

	require.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
