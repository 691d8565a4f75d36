// Package server owns the HTTP listener lifecycle: bind, serve, and
// graceful drain on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventnest/eventnest/config"
	"github.com/eventnest/eventnest/internal/kernel"
	"github.com/eventnest/eventnest/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Start boots the kernel and serves until a termination signal arrives,
// then drains in-flight requests before returning.
func Start() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handler, stop, err := kernel.Boot(ctx)
	if err != nil {
		return err
	}
	defer stop()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer drainCancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		return err
	}
	return nil
}
