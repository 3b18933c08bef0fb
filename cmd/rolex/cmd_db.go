package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/neomdavid/IAX-ROLEX-backend/database/seeders"
	"github.com/neomdavid/IAX-ROLEX-backend/internal/kernel"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/migration"
)

// boot wires the application and runs its start hooks. The caller must
// run k.App.Shutdown.
func boot(ctx context.Context) (*kernel.HTTP, error) {
	k, err := kernel.NewHTTP(ctx)
	if err != nil {
		return nil, err
	}
	if err := k.App.Start(ctx); err != nil {
		_ = k.App.Shutdown(context.Background())
		return nil, err
	}
	return k, nil
}

// withMongo boots, hands fn the database, then shuts down.
func withMongo(ctx context.Context, fn func(db *mongo.Database) error) error {
	k, err := boot(ctx)
	if err != nil {
		return err
	}
	defer k.App.Shutdown(context.Background())

	if k.Mongo() == nil {
		return errors.New("migrations need STORE_DRIVER=mongo")
	}
	return fn(k.Mongo().DB())
}

// rolex migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending index migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMongo(cmd.Context(), func(db *mongo.Database) error {
			if err := migration.EnsureIndex(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			err := migration.New(db, cmd.OutOrStdout()).Run(cmd.Context())
			if errors.Is(err, migration.ErrNoMigrations) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
				return nil
			}
			return err
		})
	},
}

// rolex migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMongo(cmd.Context(), func(db *mongo.Database) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return migration.New(db, cmd.OutOrStdout()).Rollback(cmd.Context())
		})
	},
}

// rolex migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMongo(cmd.Context(), func(db *mongo.Database) error {
			return migration.New(db, cmd.OutOrStdout()).Status(cmd.Context())
		})
	},
}

// rolex seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer k.App.Shutdown(context.Background())

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(cmd.Context(), k.Deps.Stores, cmd.OutOrStdout())
	},
}
