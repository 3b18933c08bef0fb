package ctx_test

import (
	"crypto/tls"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	appctx "github.com/neomdavid/IAX-ROLEX-backend/pkg/ctx"
)

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) error {
		return c.OK(map[string]any{"ok": true})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestWrapTranslatesErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) error {
		return apperr.NotFound("No watch id : 1")
	})(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"No watch id : 1"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestWrapHidesUnexpectedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) error {
		return errors.New("mongo: no reachable servers")
	})(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func TestSetAndGet(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) error {
		c.Set("category", "diver")
		if got := c.GetString("category"); got != "diver" {
			t.Errorf("expected diver, got %q", got)
		}
		return c.OK(nil)
	})(rec, req)
}

func TestParam(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/watches/{id}", appctx.Wrap(func(c *appctx.Context) error {
		return c.OK(map[string]string{"id": c.Param("id")})
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/watches/abc", nil))
	if !strings.Contains(rec.Body.String(), `"id":"abc"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestBindInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) error {
		var input struct {
			Name string `json:"name" validate:"required"`
		}
		return c.Bind(&input)
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestAbsoluteURL(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"plain", func(r *http.Request) {}, "http://shop.local:3000/uploads/a.png"},
		{"tls", func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, "https://shop.local:3000/uploads/a.png"},
		{"proxy", func(r *http.Request) {
			r.Header.Set("X-Forwarded-Proto", "https, http")
		}, "https://shop.local:3000/uploads/a.png"},
		{"forwarded host ignored", func(r *http.Request) {
			r.Header.Set("X-Forwarded-Host", "evil.example")
		}, "http://shop.local:3000/uploads/a.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://shop.local:3000/api/v1/watches/1", nil)
			tc.setup(req)

			var got string
			appctx.Wrap(func(c *appctx.Context) error {
				got = c.AbsoluteURL("/uploads/a.png")
				return nil
			})(httptest.NewRecorder(), req)

			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: "u1"}))

	appctx.Wrap(func(c *appctx.Context) error {
		p, ok := c.Principal()
		if !ok || p.UserID != "u1" {
			t.Errorf("expected principal u1, got %+v", p)
		}
		return nil
	})(httptest.NewRecorder(), req)
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name string
		xff  []string
		want string
	}{
		{"no header", nil, "192.0.2.1"},
		{"single hop", []string{"1.2.3.4"}, "1.2.3.4"},
		{"spoofed entries before proxy", []string{"6.6.6.6, 7.7.7.7, 1.2.3.4"}, "1.2.3.4"},
		{"repeated header", []string{"6.6.6.6", "1.2.3.4 "}, "1.2.3.4"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, v := range tc.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if ip := appctx.ClientIP(req); ip != tc.want {
				t.Errorf("expected %s, got %s", tc.want, ip)
			}
		})
	}
}

func TestJSON_UnencodableValueIsServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) error {
		return c.Created(map[string]any{"price": math.NaN()})
	})(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), apperr.GenericMessage) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
