package httpx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webserv/core/httpx"
)

func TestHeader_CaseInsensitiveLookup(t *testing.T) {
	t.Parallel()

	var h httpx.Header
	h.Add("Content-Type", "text/html")

	assert.Equal(t, "text/html", h.Get("content-type"))
	assert.Equal(t, "text/html", h.Get("CONTENT-TYPE"))
	assert.True(t, h.Has("Content-type"))
	assert.Empty(t, h.Get("Content-Length"))
}

func TestHeader_PreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	var h httpx.Header
	h.Add("Set-Cookie", "a=1")
	h.Add("Content-Type", "text/plain")
	h.Add("Set-Cookie", "b=2")

	require.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"a=1", "b=2"}, h.Values("Set-Cookie"))

	fields := h.Fields()
	assert.Equal(t, "Set-Cookie", fields[0].Name)
	assert.Equal(t, "Content-Type", fields[1].Name)
	assert.Equal(t, "Set-Cookie", fields[2].Name)
}

func TestHeader_SetReplacesInPlace(t *testing.T) {
	t.Parallel()

	var h httpx.Header
	h.Add("Accept", "text/html")
	h.Add("Host", "example.com")
	h.Add("accept", "application/json")

	h.Set("Accept", "*/*")

	require.Equal(t, 2, h.Len())
	assert.Equal(t, []string{"*/*"}, h.Values("Accept"))
	assert.Equal(t, "Accept", h.Fields()[0].Name)
	assert.Equal(t, "Host", h.Fields()[1].Name)
}

func TestHeader_SetAppendsWhenAbsent(t *testing.T) {
	t.Parallel()

	var h httpx.Header
	h.Set("Connection", "close")

	require.Equal(t, 1, h.Len())
	assert.Equal(t, "close", h.Get("Connection"))
}

func TestHeader_DelRemovesAll(t *testing.T) {
	t.Parallel()

	var h httpx.Header
	h.Add("X-Tag", "a")
	h.Add("Host", "example.com")
	h.Add("x-tag", "b")

	h.Del("X-Tag")

	require.Equal(t, 1, h.Len())
	assert.False(t, h.Has("X-Tag"))
	assert.Equal(t, "example.com", h.Get("Host"))
}

func TestHeader_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	var h httpx.Header
	h.Add("Host", "example.com")

	c := h.Clone()
	c.Set("Host", "other.test")

	assert.Equal(t, "example.com", h.Get("Host"))
	assert.Equal(t, "other.test", c.Get("Host"))
}
