package kernel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
)

func setConfig(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		prev := config.Get(k, "")
		config.Set(k, v)
		t.Cleanup(func() { config.Set(k, prev) })
	}
}

func TestNewHTTP_MemoryDriver(t *testing.T) {
	setConfig(t, map[string]string{
		"STORE_DRIVER":       "memory",
		"STORAGE_DISK":       "local",
		"STORAGE_LOCAL_ROOT": t.TempDir(),
		"PUBLIC_DIR":         t.TempDir(),
	})

	k, err := NewHTTP(context.Background())
	require.NoError(t, err)
	assert.Nil(t, k.Mongo())
	require.NoError(t, k.App.Start(context.Background()))

	h, err := k.App.Handler()
	require.NoError(t, err)

	for target, want := range map[string]int{
		"/api/v1/watches":     http.StatusOK,
		"/healthz":            http.StatusOK,
		"/uploads/1_none.png": http.StatusNotFound,
		"/api/v1/carts":       http.StatusUnauthorized,
		"/nope":               http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, want, rec.Code, target)
	}
}

func TestNewHTTP_RouteListWithoutConnecting(t *testing.T) {
	setConfig(t, map[string]string{
		"STORE_DRIVER":       "mongo",
		"STORAGE_DISK":       "local",
		"STORAGE_LOCAL_ROOT": t.TempDir(),
	})

	k, err := NewHTTP(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, k.Ping(context.Background()), errNotConnected)

	routes, err := k.App.RouteList()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, ri := range routes {
		names[ri.Name] = true
	}
	for _, want := range []string{"watches.index", "watches.show", "watches.store", "watches.update", "watches.destroy", "carts.show", "auth.login", "uploads"} {
		assert.True(t, names[want], want)
	}
}

func TestNewHTTP_UnknownDriver(t *testing.T) {
	setConfig(t, map[string]string{
		"STORE_DRIVER":       "postgres",
		"STORAGE_DISK":       "local",
		"STORAGE_LOCAL_ROOT": t.TempDir(),
	})

	_, err := NewHTTP(context.Background())
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
