package server_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webserv/core/server"
)

func TestLoadErrorPages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := filepath.Join(dir, "404.html")
	require.NoError(t, os.WriteFile(page, []byte("<h1>gone</h1>"), 0o644))

	pages, err := server.LoadErrorPages(map[int]string{404: page})
	require.NoError(t, err)

	resp := pages.Response(404)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<h1>gone</h1>", string(resp.Body))
}

func TestLoadErrorPages_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := server.LoadErrorPages(map[int]string{500: filepath.Join(t.TempDir(), "absent.html")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestErrorPages_FallbackBody(t *testing.T) {
	t.Parallel()

	pages, err := server.LoadErrorPages(nil)
	require.NoError(t, err)

	resp := pages.Response(502)
	assert.Equal(t, 502, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "502 Bad Gateway\n", string(resp.Body))
}

func TestErrorPages_NilRegistry(t *testing.T) {
	t.Parallel()

	var pages *server.ErrorPages
	resp := pages.Response(418)
	assert.Equal(t, 418, resp.StatusCode)
	assert.NotEmpty(t, resp.Body)
}
