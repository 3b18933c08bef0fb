package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/middleware"
)

func noContent(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestAuth(t *testing.T) {
	signer := auth.NewSigner("test-secret", time.Hour)
	token, err := signer.Issue(auth.Principal{UserID: "65f1c2a9e4b0a1b2c3d4e5f6", Name: "neo", Role: auth.RoleUser})
	require.NoError(t, err)

	var reached bool
	var got auth.Principal
	h := middleware.Auth(signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		got, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt", "Token " + token} {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "Authentication invalid", errorOf(t, rec))
		assert.False(t, reached, "handler must not run for %q", header)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, "neo", got.Name)
}

func TestRateLimit_MemoryStore(t *testing.T) {
	h := middleware.RateLimit(middleware.NewMemoryStore(), 2, time.Minute)(http.HandlerFunc(noContent))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if i == 2 {
			assert.Equal(t, "Too many requests, please try again later.", errorOf(t, rec))
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// Another client has its own window.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("redis: connection refused")
}

func TestRateLimit_StoreFailureLetsRequestThrough(t *testing.T) {
	h := middleware.RateLimit(failingStore{}, 1, time.Minute)(http.HandlerFunc(noContent))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong, try again later", errorOf(t, rec))
}

func TestSecurityHeaders(t *testing.T) {
	h := middleware.SecurityHeaders(http.HandlerFunc(noContent))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
}

func TestCORS_Preflight(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions("https://shop.example"))(http.HandlerFunc(noContent))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/watches", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/watches", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
