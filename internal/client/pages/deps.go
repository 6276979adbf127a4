package pages

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/debounce"
	"github.com/dmitrijs2005/sesdash/internal/client/poller"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
)

// Deps are the collaborators shared by every controller. Zero fields get
// working defaults.
type Deps struct {
	Logger        logging.Logger
	Clock         clockwork.Clock
	Banner        *status.Banner
	PollInterval  time.Duration
	DebounceDelay time.Duration
	PageSize      int
}

// DefaultPageSize is the list page size used when Deps leaves it unset.
const DefaultPageSize = 50

func (d Deps) withDefaults(module string) Deps {
	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	d.Logger = d.Logger.With("module", module)
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Banner == nil {
		d.Banner = status.NewBanner(status.WithClock(d.Clock))
	}
	if d.PollInterval <= 0 {
		d.PollInterval = poller.DefaultInterval
	}
	if d.DebounceDelay <= 0 {
		d.DebounceDelay = debounce.DefaultDelay
	}
	if d.PageSize <= 0 {
		d.PageSize = DefaultPageSize
	}
	return d
}

// lifecycle holds the context of the current mount. Background work started
// by a controller (debounced fetches, polling) uses it and stops on unmount.
type lifecycle struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func (l *lifecycle) start(parent context.Context) context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = context.WithCancel(parent)
	return l.ctx
}

func (l *lifecycle) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = nil, nil
}

func (l *lifecycle) context() (context.Context, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctx, l.ctx != nil
}
