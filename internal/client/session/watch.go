package session

import (
	"context"
	"time"
)

// Watch polls the storage revision every interval and, when another process
// has changed it, notifies listeners with SourceExternal. It blocks until ctx
// is cancelled.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	s.markSeen(ctx)

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.checkExternal(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Store) checkExternal(ctx context.Context) {
	rev, err := s.repo.Revision(ctx)
	if err != nil {
		s.logger.Warn(ctx, "storage watch failed", "error", err)
		return
	}

	s.mu.Lock()
	changed := rev != s.seenRev
	s.seenRev = rev
	s.mu.Unlock()

	if !changed {
		return
	}

	e := Event{Authenticated: s.IsAuthenticated(ctx), User: s.CurrentUser(ctx), Source: SourceExternal}
	s.logger.Debug(ctx, "session changed externally", "authenticated", e.Authenticated)
	s.notify(e)
}
