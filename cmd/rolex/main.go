// Command rolex runs and manages the IAX Rolex API.
//
//	rolex serve                  start the HTTP (+ optional gRPC health) server
//	rolex route:list             print every named route
//	rolex migrate                apply pending index migrations
//	rolex migrate:rollback       undo the last migration batch
//	rolex migrate:status         show applied and pending migrations
//	rolex seed                   run the registered seeders
//	rolex user:promote <email>   grant the admin role
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/neomdavid/IAX-ROLEX-backend/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "rolex",
	Short:         "IAX Rolex watch-shop API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Users
	rootCmd.AddCommand(userPromoteCmd)
}
