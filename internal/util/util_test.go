package util

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuman(t *testing.T) {
	assert.Equal(t, "512 B", Human(512))
	assert.Equal(t, "1.50 KB", Human(1536))
	assert.Equal(t, "2.00 MB", Human(2<<20))
	assert.Equal(t, "1.00 GB", Human(1<<30))
}

func TestPickUserAgent(t *testing.T) {
	assert.Equal(t, DefaultUserAgent, PickUserAgent(""))
	assert.Equal(t, "custom/1.0", PickUserAgent("custom/1.0"))
}

func TestNewHTTPClient_InjectsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientOptions{
		UserAgent: "moviebox-test",
		Headers:   map[string]string{"Accept": "text/html", "X-Extra": "1"},
	})

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "moviebox-test", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "1", got.Get("X-Extra"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Empty(t, req.Header.Get("X-Extra"), "caller's request must not be mutated")
}

func TestRemoveStoreFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	db := filepath.Join(dir, "cache.db")
	require.NoError(t, os.WriteFile(db, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(db+"-wal", []byte("x"), 0o644))

	require.NoError(t, RemoveStoreFiles(db))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, RemoveStoreFiles(db), "removing twice is not an error")
}
