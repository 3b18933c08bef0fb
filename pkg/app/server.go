package app

// pkg/app/server.go runs the listen+serve lifecycle: start hooks, HTTP and
// optional gRPC listeners, then a graceful shutdown on SIGINT/SIGTERM.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
	grpcserver "github.com/neomdavid/IAX-ROLEX-backend/pkg/grpc"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
)

// Serve starts the application and blocks until ctx is cancelled or the
// process receives SIGINT/SIGTERM, then drains in-flight requests.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		_ = a.Shutdown(context.Background())
		return err
	}

	handler, err := a.Handler()
	if err != nil {
		_ = a.Shutdown(context.Background())
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.Port(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.Duration("HTTP_READ_TIMEOUT", 60*time.Second),
		WriteTimeout:      config.Duration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       120 * time.Second,
	}

	if port := config.GRPCPort(); port != "" {
		grpcSrv, _, err := grpcserver.Start(port, a.pinger)
		if err != nil {
			_ = a.Shutdown(context.Background())
			return err
		}
		defer grpcserver.Stop(grpcSrv)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("http: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration("SHUTDOWN_TIMEOUT", 15*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http: shutdown", "error", err)
	}
	if err := a.Shutdown(shutdownCtx); err != nil {
		logger.Error("app: shutdown hooks", "error", err)
	}
	return serveErr
}
