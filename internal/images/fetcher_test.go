package images

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetcherDefaults(t *testing.T) {
	f := NewFetcher(0, 0)
	assert.Equal(t, 30*time.Second, f.HTTPClient.Timeout)
	assert.Equal(t, int64(DefaultMaxBytes), f.MaxBytes)

	f = NewFetcher(5*time.Second, 1024)
	assert.Equal(t, 5*time.Second, f.HTTPClient.Timeout)
	assert.Equal(t, int64(1024), f.MaxBytes)
}

func TestDownload(t *testing.T) {
	payload := bytes.Repeat([]byte{0xFF, 0xD8, 0xFF}, 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			_, _ = w.Write(payload)
		case "/empty.jpg":
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 1024)

	data, err := f.Download(context.Background(), srv.URL+"/ok.jpg")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	_, err = f.Download(context.Background(), srv.URL+"/missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = f.Download(context.Background(), srv.URL+"/empty.jpg")
	require.ErrorIs(t, err, ErrEmptyPayload)

	small := NewFetcher(time.Second, 100)
	_, err = small.Download(context.Background(), srv.URL+"/ok.jpg")
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestExtFor(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://apod.nasa.gov/apod/image/2401/m31.jpg", ".jpg"},
		{"https://apod.nasa.gov/apod/image/2401/m31.PNG", ".png"},
		{"https://images-assets.nasa.gov/image/PIA1/PIA1~orig.png?x=1", ".png"},
		{"https://images-assets.nasa.gov/image/PIA1/PIA1~orig.tif", ".jpg"},
		{"no-extension", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtFor(tt.url))
		})
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Save(dir, []byte("image bytes"), ".png")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "nasa-wallpaper-"))
	assert.Equal(t, ".png", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be gone")

	other, err := Save(dir, []byte("more"), ".jpg")
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestSaveFailureLeavesNoFile(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := Save(filepath.Join(blocker, "sub"), []byte("data"), ".jpg")
	require.Error(t, err)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
