// Package server boots the configured application and serves it until the
// process is told to stop.
package server

import (
	"context"

	"github.com/neomdavid/IAX-ROLEX-backend/internal/kernel"
)

// Start wires the application from configuration and blocks in Serve.
func Start(ctx context.Context) error {
	k, err := kernel.NewHTTP(ctx)
	if err != nil {
		return err
	}
	return k.App.Serve(ctx)
}
