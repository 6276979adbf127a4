// Package poller runs a fetch on a fixed interval for as long as a page is
// mounted.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the status/settings refresh period.
const DefaultInterval = 30 * time.Second

type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context) error
	clock    clockwork.Clock
	logger   logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Poller)

func WithClock(c clockwork.Clock) Option {
	return func(p *Poller) { p.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// New returns a stopped poller that will call fn every interval. Errors from
// fn are logged and polling continues.
func New(interval time.Duration, fn func(ctx context.Context) error, opts ...Option) *Poller {
	p := &Poller{
		interval: interval,
		fn:       fn,
		clock:    clockwork.NewRealClock(),
		logger:   logging.Nop{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Start begins polling; the first call happens one interval from now.
// Starting a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	ticker := p.clock.NewTicker(p.interval)
	go p.loop(ctx, ticker, p.done)
}

func (p *Poller) loop(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if err := p.fn(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn(ctx, "poll failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels polling and waits for an in-flight call to return. It is
// safe to call on a stopped poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether Start has been called without a matching Stop.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
