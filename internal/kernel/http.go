// Package kernel wires the API's resources into an app.Application:
// the document store, upload disk, token signer and routes, all chosen
// from configuration.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neomdavid/IAX-ROLEX-backend/app/media"
	"github.com/neomdavid/IAX-ROLEX-backend/app/routes"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/config"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/app"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/database"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/router"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/storage"
)

// errNotConnected is reported by the health probe before Start ran.
var errNotConnected = errors.New("kernel: store not connected")

// HTTP holds the wired dependencies of one application instance.
type HTTP struct {
	App    *app.Application
	Deps   routes.Deps
	driver string
	mongo  *database.Mongo
}

// NewHTTP builds the application from configuration. Nothing connects
// until App.Start (or App.Serve) runs the start hooks.
func NewHTTP(ctx context.Context) (*HTTP, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	disk, err := storage.FromConfig(ctx)
	if err != nil {
		return nil, err
	}

	k := &HTTP{
		App:    app.New(),
		driver: config.StoreDriver(),
		Deps: routes.Deps{
			Media:      media.New(disk, config.Int64("MAX_UPLOAD_BYTES", 5<<20)),
			Signer:     auth.DefaultSigner(),
			AdminGuard: config.Bool("ADMIN_GUARD_WATCHES", true),
			GraphQL:    config.Bool("GRAPHQL_ENABLED", true),
		},
	}

	switch k.driver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on exit")
		k.Deps.Stores = store.NewMemory()
	case "mongo", "":
		k.App.OnStart(k.connect)
		k.App.OnShutdown(k.disconnect)
		k.App.Health(k)
	default:
		return nil, fmt.Errorf("kernel: unknown STORE_DRIVER %q", k.driver)
	}

	k.App.Routes(func(r *router.Router) error { return routes.RegisterAPI(r, k.Deps) })
	if config.Bool("SERVE_UPLOADS", true) {
		k.App.Mount("/uploads", "uploads", k.Deps.Media)
	}
	k.App.Public(config.Get("PUBLIC_DIR", "public"))

	return k, nil
}

// Mongo returns the connected handle, or nil before Start or with the
// memory driver.
func (k *HTTP) Mongo() *database.Mongo { return k.mongo }

// Ping implements app.Pinger over the current store connection.
func (k *HTTP) Ping(ctx context.Context) error {
	if k.mongo == nil {
		return errNotConnected
	}
	return k.mongo.Ping(ctx)
}

func (k *HTTP) connect(ctx context.Context) error {
	m, err := database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return err
	}
	k.mongo = m
	k.Deps.Stores = store.NewMongo(m.DB())
	logger.Info("connected to MongoDB", "database", config.MongoDatabase())

	if config.Bool("LOG_MONGO", false) {
		h := logger.NewMongoHandler(ctx, m.Collection("logs"), slog.LevelInfo)
		logger.Mirror(h)
		k.App.OnShutdown(func(context.Context) error {
			logger.Mirror(nil)
			h.Close()
			return nil
		})
	}
	return nil
}

func (k *HTTP) disconnect(ctx context.Context) error {
	if k.mongo == nil {
		return nil
	}
	return k.mongo.Close(ctx)
}
