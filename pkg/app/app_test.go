package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/router"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func hello(r *router.Router) error {
	r.Get("/hello", "hello", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})
	return nil
}

func serve(t *testing.T, a *Application, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	h, err := a.Handler()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_RoutesAndNotFound(t *testing.T) {
	a := New().Routes(hello)

	rec := serve(t, a, http.MethodGet, "/hello")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = serve(t, a, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route does not exist"}`, rec.Body.String())

	rec = serve(t, a, http.MethodDelete, "/hello")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_RouteError(t *testing.T) {
	a := New().Routes(func(*router.Router) error { return errors.New("schema") })
	_, err := a.Handler()
	assert.EqualError(t, err, "schema")
}

func TestHandler_Healthz(t *testing.T) {
	rec := serve(t, New(), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	down := New().Health(pingFunc(func(context.Context) error { return errors.New("down") }))
	rec = serve(t, down, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandler_Metrics(t *testing.T) {
	a := New().Routes(hello)
	serve(t, a, http.MethodGet, "/hello")

	rec := serve(t, a, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rolex_http_requests_total")
}

func TestHandler_PublicDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>IAX</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	a := New().Public(dir).Routes(hello)

	rec := serve(t, a, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "IAX")

	rec = serve(t, a, http.MethodGet, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, a, http.MethodGet, "/missing.css")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route does not exist"}`, rec.Body.String())

	rec = serve(t, a, http.MethodPost, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Mount(t *testing.T) {
	files := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	rec := serve(t, New().Mount("/uploads", "uploads", files), http.MethodGet, "/uploads/1_a.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/1_a.png", rec.Body.String())
}

func TestHooks(t *testing.T) {
	var order []string
	record := func(name string, err error) Hook {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}

	a := New().
		OnStart(record("start-1", nil)).
		OnStart(record("start-2", nil)).
		OnShutdown(record("stop-1", errors.New("close db"))).
		OnShutdown(record("stop-2", nil))

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.Start(context.Background()))
	err := a.Shutdown(context.Background())

	assert.ErrorContains(t, err, "close db")
	assert.Equal(t, []string{"start-1", "start-2", "stop-2", "stop-1"}, order)
}

func TestStart_StopsOnFailure(t *testing.T) {
	calls := 0
	a := New().
		OnStart(func(context.Context) error { return errors.New("no mongo") }).
		OnStart(func(context.Context) error { calls++; return nil })

	err := a.Start(context.Background())
	assert.ErrorContains(t, err, "no mongo")
	assert.Zero(t, calls)
}

func TestPrintRoutes(t *testing.T) {
	routes, err := New().Routes(hello).RouteList()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintRoutes(&buf, routes))
	assert.Contains(t, buf.String(), "/hello")
	assert.Contains(t, buf.String(), "hello")
}
