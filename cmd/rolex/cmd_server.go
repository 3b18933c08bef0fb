package main

import (
	"github.com/spf13/cobra"

	"github.com/neomdavid/IAX-ROLEX-backend/internal/kernel"
	"github.com/neomdavid/IAX-ROLEX-backend/internal/server"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/app"
)

// rolex serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cmd.Context())
	},
}

// rolex route:list: print all registered routes without connecting.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := kernel.NewHTTP(cmd.Context())
		if err != nil {
			return err
		}
		routes, err := k.App.RouteList()
		if err != nil {
			return err
		}
		return app.PrintRoutes(cmd.OutOrStdout(), routes)
	},
}
