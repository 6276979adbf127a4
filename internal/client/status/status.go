// Package status implements the transient banner used to report the outcome
// of operator actions.
package status

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Default dismiss periods. Failures stay up longer.
const (
	SuccessDismiss = 3 * time.Second
	ErrorDismiss   = 5 * time.Second
	InfoDismiss    = 3 * time.Second
)

// Message is a banner entry. A zero AutoDismiss keeps it until replaced.
type Message struct {
	Kind        Kind
	Text        string
	AutoDismiss time.Duration
}

func Success(text string) Message {
	return Message{Kind: KindSuccess, Text: text, AutoDismiss: SuccessDismiss}
}

func Error(text string) Message {
	return Message{Kind: KindError, Text: text, AutoDismiss: ErrorDismiss}
}

func Info(text string) Message {
	return Message{Kind: KindInfo, Text: text, AutoDismiss: InfoDismiss}
}

// For returns m with a different dismiss period.
func (m Message) For(d time.Duration) Message {
	m.AutoDismiss = d
	return m
}

// Banner shows at most one message. Showing a new message replaces the old
// one and restarts the dismiss timer.
type Banner struct {
	clock    clockwork.Clock
	onChange func(m Message, visible bool)

	mu      sync.Mutex
	current Message
	visible bool
	timer   clockwork.Timer
	gen     uint64
}

type Option func(*Banner)

func WithClock(c clockwork.Clock) Option {
	return func(b *Banner) { b.clock = c }
}

// OnChange registers fn to run after a message is shown or dismissed.
func OnChange(fn func(m Message, visible bool)) Option {
	return func(b *Banner) { b.onChange = fn }
}

func NewBanner(opts ...Option) *Banner {
	b := &Banner{clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Banner) Show(m Message) {
	b.mu.Lock()
	b.stopLocked()
	b.current, b.visible = m, true
	if m.AutoDismiss > 0 {
		gen := b.gen
		b.timer = b.clock.AfterFunc(m.AutoDismiss, func() { b.expire(gen) })
	}
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(m, true)
	}
}

// Current returns the visible message, if any.
func (b *Banner) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.visible
}

func (b *Banner) Clear() {
	b.mu.Lock()
	b.stopLocked()
	was, m := b.visible, b.current
	b.visible = false
	fn := b.onChange
	b.mu.Unlock()

	if was && fn != nil {
		fn(m, false)
	}
}

func (b *Banner) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
}

func (b *Banner) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || !b.visible {
		b.mu.Unlock()
		return
	}
	b.visible, b.timer = false, nil
	m, fn := b.current, b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(m, false)
	}
}
