package pages

import (
	"context"
	"sync"
)

// loader tracks one controller's snapshot. Each fetch takes a token from
// begin; finish applies the result only if no newer fetch has started since.
type loader[T any] struct {
	mu         sync.Mutex
	seq        uint64
	loading    bool
	refreshing bool
	data       *T
	err        error
	loads      int
}

// begin starts a fetch. A quiet fetch keeps the current view on screen and
// raises refreshing instead of loading.
func (l *loader[T]) begin(quiet bool) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	if quiet && l.data != nil {
		l.refreshing = true
	} else {
		l.loading = true
	}
	return l.seq
}

func (l *loader[T]) finish(token uint64, v *T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.seq {
		return false
	}
	l.loading, l.refreshing = false, false
	l.err = err
	if err == nil {
		l.data = v
		l.loads++
	}
	return true
}

// run performs fetch under a token. The flags are cleared even if fetch
// panics.
func (l *loader[T]) run(ctx context.Context, quiet bool, fetch func(context.Context) (*T, error)) (applied bool, err error) {
	token := l.begin(quiet)
	var v *T
	err = errAborted
	defer func() {
		applied = l.finish(token, v, err)
	}()
	v, err = fetch(ctx)
	return false, err
}

type snapshot[T any] struct {
	data       *T
	loading    bool
	refreshing bool
	err        error
	loads      int
}

func (l *loader[T]) snapshot() snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshot[T]{data: l.data, loading: l.loading, refreshing: l.refreshing, err: l.err, loads: l.loads}
}

func (l *loader[T]) busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading || l.refreshing
}
