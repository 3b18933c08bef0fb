// Package app provides the application runner: one config-driven HTTP
// handler, optional gRPC health server, and ordered start/shutdown hooks.
//
// The package has no knowledge of the API's resources. Project wiring
// (stores, routes, uploads) is injected through the builder:
//
//	a := app.New().
//	    OnStart(connectMongo).
//	    Health(mongo).
//	    Routes(func(r *router.Router) error { return routes.RegisterAPI(r, deps) }).
//	    Mount("/uploads", "uploads", ingestor).
//	    OnShutdown(mongo.Close)
//
//	if err := a.Serve(ctx); err != nil { ... }
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/router"
)

// Hook runs during start-up or shutdown.
type Hook func(ctx context.Context) error

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type mount struct {
	prefix  string
	name    string
	handler http.Handler
}

// Application is the central configuration object. Build one with New,
// attach routes and hooks, then call Serve.
type Application struct {
	routesFns []func(*router.Router) error
	mounts    []mount
	pinger    Pinger
	publicDir string
	onStart   []Hook
	onStop    []Hook
	started   bool
}

// New creates an empty Application.
func New() *Application {
	return &Application{}
}

// Routes registers a route-registration callback. Callbacks run in order
// when the handler is built.
func (a *Application) Routes(fn func(*router.Router) error) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Mount attaches h under prefix, e.g. a file server for uploads.
func (a *Application) Mount(prefix, name string, h http.Handler) *Application {
	a.mounts = append(a.mounts, mount{prefix: prefix, name: name, handler: h})
	return a
}

// Health sets the dependency probed by /healthz and the gRPC health service.
func (a *Application) Health(p Pinger) *Application {
	a.pinger = p
	return a
}

// Public serves files from dir for GET requests no route matched, with
// index.html at "/". A missing directory disables it.
func (a *Application) Public(dir string) *Application {
	a.publicDir = dir
	return a
}

// OnStart adds a hook run by Start, in registration order.
func (a *Application) OnStart(h Hook) *Application {
	a.onStart = append(a.onStart, h)
	return a
}

// OnShutdown adds a hook run by Shutdown, in reverse registration order.
func (a *Application) OnShutdown(h Hook) *Application {
	a.onStop = append(a.onStop, h)
	return a
}

// Start runs the start hooks once. A failing hook stops the sequence.
func (a *Application) Start(ctx context.Context) error {
	if a.started {
		return nil
	}
	for i, h := range a.onStart {
		if err := h(ctx); err != nil {
			return fmt.Errorf("app: start hook %d: %w", i, err)
		}
	}
	a.started = true
	return nil
}

// Shutdown runs every shutdown hook, newest first, and joins their errors.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(a.onStop) - 1; i >= 0; i-- {
		if err := a.onStop[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RouteList builds a throwaway router and returns every named route.
func (a *Application) RouteList() ([]router.RouteInfo, error) {
	r := router.New()
	for _, m := range a.mounts {
		r.Mount(m.prefix, m.name, m.handler)
	}
	for _, fn := range a.routesFns {
		if err := fn(r); err != nil {
			return nil, err
		}
	}
	return r.Routes(), nil
}
