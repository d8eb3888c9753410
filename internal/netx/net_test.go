package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFile(t *testing.T) {
	t.Run("success 200 OK", func(t *testing.T) {
		var gotMethod, gotQuery string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"items":[]}`))
		}))
		defer ts.Close()

		dest := filepath.Join(t.TempDir(), "a@b.c-restore.txt")
		err := DownloadFile(context.Background(), ts.URL+"/backups/a@b.c-restore.txt?X-Amz-Signature=abc", dest)
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, "X-Amz-Signature=abc", gotQuery)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, `{"items":[]}`, string(data))
	})

	t.Run("non-200 -> error, nothing written", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("expired"))
		}))
		defer ts.Close()

		dest := filepath.Join(t.TempDir(), "out.txt")
		err := DownloadFile(context.Background(), ts.URL, dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download failed: 403")
		assert.Contains(t, err.Error(), "expired")

		_, statErr := os.Stat(dest)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := DownloadFile(context.Background(), ts.URL, filepath.Join(t.TempDir(), "x"))
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "download failed")
	})

	t.Run("canceled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := DownloadFile(ctx, ts.URL, filepath.Join(t.TempDir(), "x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
