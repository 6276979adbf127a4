package mockbackend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
)

const purgeInterval = time.Hour

type App struct {
	config *Config
	logger logging.Logger
	clock  clockwork.Clock
	store  *Store
	server *http.Server
}

// NewApp seeds a store from c and wires the HTTP server around it.
func NewApp(c *Config, logger logging.Logger) (*App, error) {
	clock := clockwork.NewRealClock()
	store := NewStore(clock)
	if err := Seed(store, c); err != nil {
		return nil, err
	}
	store.SetAWS(models.AWSSettings{Enabled: c.AWSEnabled, Region: c.AWSRegion})

	srv := NewServer(store, c, WithClock(clock), WithLogger(logger))
	return &App{
		config: c,
		logger: logger.With("module", "mockbackend"),
		clock:  clock,
		store:  store,
		server: &http.Server{Addr: c.ListenAddr, Handler: srv.Router()},
	}, nil
}

// Run serves until ctx is cancelled, then gives in-flight requests
// ShutdownTimeout to finish.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	app.logger.Info(ctx, "mock backend running", "addr", ln.Addr().String(), "events", app.config.Events, "aws_enabled", app.config.AWSEnabled)

	go app.purgeLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down mock backend")
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

// purgeLoop applies the retention policy once per purgeInterval.
func (app *App) purgeLoop(ctx context.Context) {
	t := app.clock.NewTicker(purgeInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			if n := app.store.PurgeExpired(); n > 0 {
				app.logger.Info(ctx, "expired events purged", "count", n)
			}
		}
	}
}
