package monitor

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sesdash/internal/client/storage"
	"github.com/dmitrijs2005/sesdash/internal/common"
)

// TokenSource is the monitor's view of the stored credentials.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Session supplies the bearer token from the monitor's own storage key and
// falls back to the dashboard session token when that key is empty.
type Session struct {
	Repo     storage.Repository
	Fallback TokenSource
}

func (s *Session) Token(ctx context.Context) (string, error) {
	raw, err := s.Repo.Get(ctx, common.StorageKeyMonitorToken)
	if err != nil {
		return "", fmt.Errorf("read monitor token: %w", err)
	}
	if len(raw) > 0 {
		return string(raw), nil
	}
	if s.Fallback == nil {
		return "", nil
	}
	return s.Fallback.Token(ctx)
}

// Logout does nothing: an unauthorized answer shows up in the activity log
// and never ends the dashboard session.
func (s *Session) Logout(context.Context) error {
	return nil
}
