package main

// cmd/server/main.go is the container entry point: it only serves. Use
// cmd/rolex for migrations, seeding and other management commands.

import (
	"context"
	"os"

	"github.com/neomdavid/IAX-ROLEX-backend/internal/server"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
)

func main() {
	if err := server.Start(context.Background()); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
