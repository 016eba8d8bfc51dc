package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benrowan/crusty-crawler/internal/common"
	"github.com/benrowan/crusty-crawler/internal/logging"
)

type fakeValidator struct {
	tokens map[string]string // token -> username
}

func (f *fakeValidator) ValidateToken(token string) (string, error) {
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return "", common.ErrInvalidToken
}

type fakeReport struct{ text string }

func (f *fakeReport) Report(context.Context) string { return f.text }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.css"), []byte("body{}"), 0o644))

	return NewRouter(RouterDeps{
		Validator: &fakeValidator{tokens: map[string]string{"tok12345": "alice"}},
		Report:    &fakeReport{text: "System name: testbox\n"},
		StaticDir: staticDir,
		Logger:    logging.Nop{},
	})
}

func TestStatusEndpoint(t *testing.T) {
	r := newTestRouter(t)

	t.Run("valid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status?token=tok12345", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "System name: testbox")
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status?token=bogus", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotContains(t, rec.Body.String(), "System name")
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestIndexEndpoint(t *testing.T) {
	r := newTestRouter(t)

	t.Run("no token serves login page with 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Access token")
		assert.NotContains(t, rec.Body.String(), "Invalid access token")
	})

	t.Run("invalid token serves login page with error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?token=bogus", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid access token")
	})

	t.Run("valid token serves status shell", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?token=tok12345", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "System Status")
		assert.Contains(t, rec.Body.String(), "/api/status?token=tok12345")
	})
}

func TestStaticFallback(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
}
