// Package debounce delays a rapidly changing value until it has been stable
// for a quiet period.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the quiet period used for search inputs.
const DefaultDelay = 500 * time.Millisecond

type config struct {
	clock clockwork.Clock
}

type Option func(*config)

func WithClock(c clockwork.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// Debouncer forwards the latest value passed to Set once no further Set has
// arrived for the full delay. Every Set restarts the wait and discards the
// pending value, so one pause produces at most one emission.
//
// A value equal to the last one emitted (initially the constructor's value)
// is never emitted: typing and then restoring the original text within the
// window is a no-op.
type Debouncer[T comparable] struct {
	delay time.Duration
	emit  func(T)
	clock clockwork.Clock

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64
	pending T
	last    T
}

// New returns a Debouncer whose current value is initial. emit runs on a
// timer goroutine.
func New[T comparable](initial T, delay time.Duration, emit func(T), opts ...Option) *Debouncer[T] {
	cfg := config{clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(&cfg)
	}
	return &Debouncer[T]{
		delay:   delay,
		emit:    emit,
		clock:   cfg.clock,
		pending: initial,
		last:    initial,
	}
}

// Set records v and restarts the quiet period.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.pending = v
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Reset drops any pending value and makes v the current value without
// emitting it. Callers use it after applying a value through another path.
func (d *Debouncer[T]) Reset(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.pending = v
	d.last = v
}

// Cancel drops any pending value.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.pending = d.last
}

// Value is the last emitted (or reset) value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Pending reports whether a value is waiting for the quiet period to end.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// invalidates a timer that already fired but has not taken the lock yet
	d.gen++
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v := d.pending
	if v == d.last {
		d.mu.Unlock()
		return
	}
	d.last = v
	d.mu.Unlock()

	d.emit(v)
}
