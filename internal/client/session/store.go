// Package session holds the process-wide authentication state: the bearer
// token and user profile persisted in local storage, and the listeners that
// react when either changes.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/storage"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
)

// Authenticator exchanges credentials for a session with the backend.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// Source tells listeners where a change came from.
type Source int

const (
	// SourceLocal marks a login or logout made through this Store.
	SourceLocal Source = iota
	// SourceExternal marks a change written by another process sharing the
	// same storage file.
	SourceExternal
)

func (s Source) String() string {
	if s == SourceExternal {
		return "external"
	}
	return "local"
}

// Event is delivered to listeners after the stored session changes.
type Event struct {
	Authenticated bool
	User          *models.User
	Source        Source
}

// Store is safe for concurrent use. Listeners run synchronously on the
// goroutine that caused the change and must not call Subscribe.
type Store struct {
	repo   storage.Repository
	auth   Authenticator
	logger logging.Logger
	clock  clockwork.Clock

	mu        sync.Mutex
	listeners map[int]func(Event)
	nextID    int
	seenRev   int64
}

type Option func(*Store)

// WithClock replaces the wall clock used by Watch.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func NewStore(repo storage.Repository, auth Authenticator, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		auth:      auth,
		logger:    logger.With("module", "session"),
		clock:     clockwork.NewRealClock(),
		listeners: make(map[int]func(Event)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login authenticates against the backend and persists the session. On
// failure the backend's error is returned and storage is left untouched.
func (s *Store) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.SetMany(ctx, map[string][]byte{
		common.StorageKeyToken: []byte(resp.Token),
		common.StorageKeyUser:  userJSON,
	}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.markSeen(ctx)
	s.logger.Info(ctx, "logged in", "user", resp.User.Username, "role", resp.User.Role)

	user := resp.User
	s.notify(Event{Authenticated: true, User: &user, Source: SourceLocal})
	return resp, nil
}

// Logout clears the stored session and notifies listeners. Calling it when
// nothing is stored does nothing.
func (s *Store) Logout(ctx context.Context) error {
	before, err := s.repo.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read revision: %w", err)
	}
	if err := s.repo.Delete(ctx, common.StorageKeyToken, common.StorageKeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	after, err := s.repo.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read revision: %w", err)
	}
	s.markSeen(ctx)

	if after == before {
		return nil
	}
	s.logger.Info(ctx, "logged out")
	s.notify(Event{Authenticated: false, Source: SourceLocal})
	return nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, common.StorageKeyToken)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(raw), nil
}

// IsAuthenticated reports whether a token is stored. Expiry is not checked;
// the backend reports it with a 401.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil {
		s.logger.Error(ctx, "auth check failed", "error", err)
		return false
	}
	return token != ""
}

// CurrentUser returns the stored profile, or nil when none is stored or it
// cannot be decoded.
func (s *Store) CurrentUser(ctx context.Context) *models.User {
	raw, err := s.repo.Get(ctx, common.StorageKeyUser)
	if err != nil {
		s.logger.Error(ctx, "read user failed", "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logger.Warn(ctx, "stored user is not valid JSON", "error", err)
		return nil
	}
	return &u
}

func (s *Store) IsAdmin(ctx context.Context) bool {
	u := s.CurrentUser(ctx)
	return u != nil && u.IsAdmin()
}

// Subscribe registers fn for session changes and returns a function that
// removes it. The returned function may be called more than once.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(e Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (s *Store) markSeen(ctx context.Context) {
	rev, err := s.repo.Revision(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.seenRev = rev
	s.mu.Unlock()
}
