// Package server runs the dashboard's static proxy: it serves the built
// single-page application and forwards API, SNS and Swagger traffic to the
// backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/dmitrijs2005/sesdash/internal/server/config"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	fwd, err := NewForwarder(c.BackendURL, BreakerSettings{Failures: c.BreakerFailures, Timeout: c.BreakerTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("proxy init error: %w", err)
	}

	return &App{
		config: c,
		logger: logger.With("module", "server"),
		server: &http.Server{
			Addr:    c.ListenAddr,
			Handler: NewRouter(fwd, NewStatic(c.StaticDir), logger),
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// gives in-flight requests ShutdownTimeout to finish.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	app.logger.Info(ctx, "frontend server running", "addr", ln.Addr().String(), "backend", app.config.BackendURL, "static_dir", app.config.StaticDir)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
