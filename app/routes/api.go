package routes

import (
	"github.com/neomdavid/IAX-ROLEX-backend/app/controllers"
	"github.com/neomdavid/IAX-ROLEX-backend/app/media"
	"github.com/neomdavid/IAX-ROLEX-backend/app/services"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/ctx"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/graphql"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/middleware"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/rbac"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/router"
)

// Deps is everything the API routes need.
type Deps struct {
	Stores store.Stores
	Media  *media.Ingestor
	Signer *auth.Signer

	// AdminGuard puts watch create/update/delete behind auth + admin role.
	AdminGuard bool
	// GraphQL mounts the read-only catalog at /api/v1/graphql.
	GraphQL bool
}

// RegisterAPI mounts every route under /api/v1.
func RegisterAPI(r *router.Router, d Deps) error {
	authController := controllers.NewAuthController(services.NewAuthService(d.Stores.Users, d.Signer))
	watchController := controllers.NewWatchController(d.Stores.Watches, d.Media)
	cartController := controllers.NewCartController(d.Stores.Carts, d.Stores.Watches)

	guard := middleware.Auth(d.Signer)

	api := r.Group("/api/v1")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	authRoutes.Post("/login", "auth.login", ctx.Wrap(authController.Login))
	authRoutes.Get("/me", "auth.me", ctx.Wrap(authController.Me), guard)

	watches := api.Group("/watches")
	watches.Get("/", "watches.index", ctx.Wrap(watchController.Index))
	watches.Get("/{id}", "watches.show", ctx.Wrap(watchController.Show))

	manage := watches.Group("")
	if d.AdminGuard {
		manage.Use(guard, rbac.Admin())
	}
	manage.Post("/", "watches.store", ctx.Wrap(watchController.Create))
	manage.Patch("/{id}", "watches.update", ctx.Wrap(watchController.Update))
	manage.Put("/{id}", "watches.replace", ctx.Wrap(watchController.Update))
	manage.Delete("/{id}", "watches.destroy", ctx.Wrap(watchController.Delete))

	carts := api.Group("/carts", guard)
	carts.Get("/", "carts.show", ctx.Wrap(cartController.Show))
	carts.Post("/", "carts.add", ctx.Wrap(cartController.Add))
	carts.Delete("/", "carts.clear", ctx.Wrap(cartController.Clear))
	carts.Patch("/{watchId}", "carts.update", ctx.Wrap(cartController.Update))
	carts.Delete("/{watchId}", "carts.remove", ctx.Wrap(cartController.Remove))

	if d.GraphQL {
		schema, err := controllers.CatalogSchema(d.Stores.Watches)
		if err != nil {
			return err
		}
		api.Post("/graphql", "graphql", graphql.Handler(schema))
	}
	return nil
}
