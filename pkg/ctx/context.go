// Package ctx provides the request context handed to controllers.
//
// A handler receives one *Context and returns an error; Wrap turns any
// returned error into a response through response.Fail, so controllers never
// write error bodies themselves:
//
//	func (wc *WatchController) Show(c *ctx.Context) error {
//	    w, err := wc.watches.FindByID(c.Context(), c.Param("id"))
//	    if err != nil {
//	        return err
//	    }
//	    return c.OK(w)
//	}
//
//	r.Get("/watches/{id}", "watches.show", ctx.Wrap(wc.Show))
package ctx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/bind"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context) error

// Wrap converts a HandlerFunc to a standard http.HandlerFunc. A non-nil
// error is rendered by response.Fail unless the handler already wrote.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		if err := h(c); err != nil && c.status == 0 {
			response.Fail(w, r, err)
		}
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int // written status code (0 = not written yet)
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/watches/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// ClientIP returns the client address. Forwarding headers are only trusted
// when TRUST_PROXY is on.
func (c *Context) ClientIP() string {
	return ClientIP(c.R)
}

// Scheme is "https" for TLS requests, the X-Forwarded-Proto value behind a
// trusted proxy, and "http" otherwise.
func (c *Context) Scheme() string {
	if trustProxy() {
		if p := firstValue(c.R.Header.Get("X-Forwarded-Proto")); p != "" {
			return strings.ToLower(p)
		}
	}
	if c.R.TLS != nil {
		return "https"
	}
	return "http"
}

// Host returns the Host header of the request. X-Forwarded-Host is
// ignored even behind a trusted proxy.
func (c *Context) Host() string {
	return c.R.Host
}

// AbsoluteURL joins scheme, host and a rooted path.
func (c *Context) AbsoluteURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.Scheme() + "://" + c.Host() + path
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Principal returns the authenticated caller, if the auth guard ran.
func (c *Context) Principal() (auth.Principal, bool) {
	return auth.FromContext(c.R.Context())
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// GetString returns a string value from the store, or "" if absent/wrong type.
func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the JSON or form body into dest and validates it.
//
//	var in CartItemInput
//	if err := c.Bind(&in); err != nil {
//	    return err
//	}
func (c *Context) Bind(dest any) error {
	return bind.Request(c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes a JSON response with the given status code. Nothing is
// written when v cannot be encoded; the error goes back to Wrap.
func (c *Context) JSON(code int, v any) error {
	body, err := response.Encode(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	_, err = c.W.Write(body)
	return err
}

// OK sends v with status 200.
func (c *Context) OK(v any) error { return c.JSON(http.StatusOK, v) }

// Created sends v with status 201.
func (c *Context) Created(v any) error { return c.JSON(http.StatusCreated, v) }

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }

// ClientIP is the package-level form of (*Context).ClientIP, used by
// middleware that runs before a Context exists. Behind a trusted proxy it
// is the address that proxy appended, the last X-Forwarded-For entry; the
// entries before it are client supplied.
func ClientIP(r *http.Request) string {
	if trustProxy() {
		if fwd := lastValue(r.Header.Values("X-Forwarded-For")); fwd != "" {
			return fwd
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func trustProxy() bool { return config.Bool("TRUST_PROXY", true) }

func firstValue(h string) string {
	first, _, _ := strings.Cut(h, ",")
	return strings.TrimSpace(first)
}

func lastValue(hs []string) string {
	if len(hs) == 0 {
		return ""
	}
	h := hs[len(hs)-1]
	if i := strings.LastIndexByte(h, ','); i != -1 {
		h = h[i+1:]
	}
	return strings.TrimSpace(h)
}
