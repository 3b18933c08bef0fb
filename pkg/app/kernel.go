package app

// pkg/app/kernel.go builds the http.Handler from the Application config.
// Global middleware and the flag-driven extras live here; resource routes
// come from the Routes callbacks.

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/metrics"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/middleware"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/reqid"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/response"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/router"
)

// Handler builds the full HTTP handler.
func (a *Application) Handler() (http.Handler, error) {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost for accurate total latency
	//  2. Recovery: catches panics before they kill the goroutine
	//  3. Request ID: inject unique ID before anything logs
	//  4. Logger: logs request_id from context
	//  5. Security headers (helmet-style, incl. nosniff)
	//  6. CORS
	//  7. Rate limiter: reject abusers early
	if config.Bool("METRICS_ENABLED", true) {
		r.Use(metrics.Middleware())
	}
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	if config.Bool("SECURITY_HEADERS", true) {
		r.Use(middleware.SecurityHeaders)
	} else {
		r.Use(middleware.NoSniff)
	}
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.List("CORS_ORIGINS", "*")...)))
	if config.Bool("RATE_LIMIT_ENABLED", false) {
		r.Use(middleware.RateLimit(
			a.rateStore(),
			config.Int("RATE_LIMIT_MAX", 100),
			config.Duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		))
	}

	r.NotFound(a.fallback())
	r.MethodNotAllowed(response.MethodNotAllowed)

	if config.Bool("METRICS_ENABLED", true) {
		r.Get("/metrics", "metrics", metrics.Handler())
	}
	r.Get("/healthz", "healthz", a.healthz)

	for _, m := range a.mounts {
		r.Mount(m.prefix, m.name, m.handler)
	}
	for _, fn := range a.routesFns {
		if err := fn(r); err != nil {
			return nil, err
		}
	}

	return r.Handler(), nil
}

// rateStore picks the limiter backend from RATE_LIMIT_STORE. The Redis
// client is closed with the application.
func (a *Application) rateStore() middleware.RateStore {
	if strings.EqualFold(config.Get("RATE_LIMIT_STORE", "memory"), "redis") {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
		})
		a.OnShutdown(func(context.Context) error { return client.Close() })
		return middleware.NewRedisStore(client, "rolex:rate:")
	}
	return middleware.NewMemoryStore()
}

func (a *Application) healthz(w http.ResponseWriter, r *http.Request) {
	if a.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.pinger.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("healthz: store unreachable", "error", err)
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	response.OK(w, map[string]string{"status": "ok"})
}

// fallback serves public assets for unmatched GET/HEAD requests and answers
// everything else with the JSON 404.
func (a *Application) fallback() http.HandlerFunc {
	dir := a.publicDir
	if dir != "" {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			dir = ""
		}
	}
	if dir == "" {
		return response.NotFound
	}

	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			response.NotFound(w, r)
			return
		}
		name := path.Clean("/" + r.URL.Path)
		if name == "/" {
			name = "/index.html"
		}
		fi, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil || fi.IsDir() {
			response.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}
