package pages

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/status"
)

// actions serialises each named mutating action: while one is running the
// same control is disabled and a second trigger gets ErrBusy.
type actions struct {
	banner *status.Banner

	mu      sync.Mutex
	running map[string]bool
}

func newActions(b *status.Banner) *actions {
	return &actions{banner: b, running: make(map[string]bool)}
}

// do runs fn and shows the message it returns.
func (a *actions) do(ctx context.Context, name string, fn func(context.Context) (status.Message, error)) error {
	a.mu.Lock()
	if a.running[name] {
		a.mu.Unlock()
		return ErrBusy
	}
	a.running[name] = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.running, name)
		a.mu.Unlock()
	}()

	msg, err := fn(ctx)
	if msg.Text != "" {
		a.banner.Show(msg)
	}
	return err
}

func (a *actions) busy(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running[name]
}
