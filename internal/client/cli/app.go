package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/config"
	"github.com/dmitrijs2005/sesdash/internal/client/guard"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/pages"
	"github.com/dmitrijs2005/sesdash/internal/client/session"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/dmitrijs2005/sesdash/internal/client/storage"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
)

// Backend is every endpoint the pages use. *api.Client implements it.
type Backend interface {
	pages.EventsSource
	pages.MetricsSource
	pages.SeriesSource
	pages.UsersSource
	pages.SuppressionSource
	pages.SettingsSource
}

type App struct {
	session *session.Store
	guard   *guard.Guard
	banner  *status.Banner
	logger  logging.Logger

	dashboard   *pages.Dashboard
	events      *pages.Events
	analytics   *pages.Analytics
	users       *pages.Users
	suppression *pages.Suppression
	settings    *pages.Settings
	screens     map[string]*screen

	reader        *bufio.Reader
	out           io.Writer
	watchInterval time.Duration

	mu      sync.Mutex
	current string
	active  *screen
	draft   settingsDraft

	// reroute is raised from transport and session callbacks; the REPL
	// acts on it between commands.
	reroute atomic.Bool
	closers []func()
}

type options struct {
	clock         clockwork.Clock
	pollInterval  time.Duration
	watchInterval time.Duration
	in            io.Reader
	out           io.Writer
}

func newApp(store *session.Store, backend Backend, logger logging.Logger, o options) *App {
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	if o.in == nil {
		o.in = os.Stdin
	}
	if o.out == nil {
		o.out = os.Stdout
	}

	a := &App{
		session:       store,
		logger:        logger.With("module", "cli"),
		reader:        bufio.NewReader(o.in),
		out:           o.out,
		watchInterval: o.watchInterval,
	}
	a.banner = status.NewBanner(status.WithClock(o.clock), status.OnChange(a.showStatus))

	deps := pages.Deps{
		Logger:       logger,
		Clock:        o.clock,
		Banner:       a.banner,
		PollInterval: o.pollInterval,
	}
	a.dashboard = pages.NewDashboard(backend, deps)
	a.events = pages.NewEvents(backend, backend, deps)
	a.analytics = pages.NewAnalytics(backend, deps)
	a.users = pages.NewUsers(backend, deps)
	a.suppression = pages.NewSuppression(backend, deps)
	a.settings = pages.NewSettings(backend, deps)
	a.screens = a.buildScreens()

	a.guard = guard.New(store)
	a.guard.OnChange(func(s guard.State) {
		if s == guard.StateUnauthenticated {
			a.reroute.Store(true)
		}
	})
	return a
}

// clientAuth lets the session store log in through the API client built
// after it.
type clientAuth struct {
	client *api.Client
}

func (c *clientAuth) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return c.client.Login(ctx, req)
}

// NewApp opens the session storage and wires the API client, the guard and
// the page controllers.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repo, err := storage.Open(ctx, c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	auth := &clientAuth{}
	store := session.NewStore(repo, auth, logger)

	var app *App
	client, err := api.New(c.BaseURL, store,
		api.WithLogger(logger),
		api.WithUnauthorizedHandler(func() {
			if app != nil {
				app.onUnauthorized()
			}
		}),
	)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	auth.client = client

	app = newApp(store, client, logger, options{
		pollInterval:  c.PollInterval,
		watchInterval: c.WatchInterval,
	})
	app.closers = append(app.closers, func() { _ = repo.Close() })
	return app, nil
}

// Run binds the guard to the session, starts the storage watcher and runs
// the REPL until the operator exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	unbind := a.guard.Bind(ctx, a.session)
	defer unbind()

	unsubscribe := a.session.Subscribe(a.onSessionEvent)
	defer unsubscribe()

	if a.watchInterval > 0 {
		go a.session.Watch(ctx, a.watchInterval)
	}

	printlnFn("Welcome to the SES dashboard (type 'help' for commands)")
	_ = a.Navigate(ctx, guard.RootPath)
	a.reroute.Store(false)

	runREPL(ctx, a, a.getStatus, a.reader)
	a.unmount()
}

func (a *App) close() {
	for _, c := range a.closers {
		c()
	}
}

func (a *App) onUnauthorized() {
	a.reroute.Store(true)
}

func (a *App) onSessionEvent(e session.Event) {
	if e.Source != session.SourceExternal {
		return
	}
	if e.Authenticated {
		printlnFn("Session changed in another window.")
	} else {
		printlnFn("Signed out in another window.")
	}
	a.reroute.Store(true)
}

func (a *App) showStatus(m status.Message, visible bool) {
	if !visible {
		return
	}
	printlnFn(fmt.Sprintf("[%s] %s", m.Kind, m.Text))
}

func (a *App) isLoggedIn() bool {
	return a.guard.State() == guard.StateUser || a.guard.State() == guard.StateAdmin
}

func (a *App) getStatus() string {
	a.mu.Lock()
	path := a.current
	a.mu.Unlock()

	s := ""
	if u := a.session.CurrentUser(context.Background()); u != nil {
		s = fmt.Sprintf("(%s %s) ", u.Username, u.Role)
	}
	return s + path
}

// afterCommand re-resolves the current page when the session has changed
// underneath it, e.g. after a 401.
func (a *App) afterCommand(ctx context.Context) {
	if !a.reroute.Swap(false) {
		return
	}
	a.guard.Check(ctx)

	a.mu.Lock()
	path := a.current
	a.mu.Unlock()

	if !a.isLoggedIn() && path != guard.LoginPath {
		printlnFn("Your session has ended. Please log in again.")
	}
	_ = a.Navigate(ctx, path)
}
