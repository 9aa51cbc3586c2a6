package netx

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	t.Run("success 200 OK", func(t *testing.T) {
		var gotMethod, gotQuery, gotAuth string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotQuery = r.URL.RawQuery
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte("id,date\n1,2024-01-01\n"))
		}))
		defer ts.Close()

		var buf bytes.Buffer
		n, err := Download(context.Background(), ts.Client(), ts.URL+"/exports/a.csv?X-Amz-Signature=abc", &buf)
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, "X-Amz-Signature=abc", gotQuery)
		assert.Empty(t, gotAuth)
		assert.Equal(t, int64(buf.Len()), n)
		assert.Equal(t, "id,date\n1,2024-01-01\n", buf.String())
	})

	t.Run("non-200 includes body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "SignatureDoesNotMatch", http.StatusForbidden)
		}))
		defer ts.Close()

		var buf bytes.Buffer
		_, err := Download(context.Background(), ts.Client(), ts.URL, &buf)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "403"))
		assert.Contains(t, err.Error(), "SignatureDoesNotMatch")
		assert.Zero(t, buf.Len())
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := Download(context.Background(), http.DefaultClient, "://nope", &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Download(ctx, ts.Client(), ts.URL, &bytes.Buffer{})
		require.Error(t, err)
	})
}
