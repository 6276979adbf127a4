package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/storage"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	resp *models.LoginResponse
	err  error
	got  []models.LoginRequest
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

func adminLogin() *models.LoginResponse {
	return &models.LoginResponse{
		Token: "tok-1",
		User:  models.User{ID: 1, Username: "admin", Email: "admin@example.com", Role: common.RoleAdmin},
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) fn(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestLogin_PersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemory()
	auth := &fakeAuth{resp: adminLogin()}
	s := NewStore(repo, auth, logging.Nop{})

	var rec recorder
	s.Subscribe(rec.fn)

	resp, err := s.Login(ctx, models.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, []models.LoginRequest{{Username: "admin", Password: "pw"}}, auth.got)

	assert.True(t, s.IsAuthenticated(ctx))
	assert.True(t, s.IsAdmin(ctx))
	require.NotNil(t, s.CurrentUser(ctx))
	assert.Equal(t, "admin@example.com", s.CurrentUser(ctx).Email)

	events := rec.all()
	require.Len(t, events, 1)
	assert.True(t, events[0].Authenticated)
	assert.Equal(t, SourceLocal, events[0].Source)
	assert.Equal(t, "admin", events[0].User.Username)
}

func TestLogin_FailureLeavesStorageUntouched(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemory()
	require.NoError(t, repo.Set(ctx, common.StorageKeyToken, []byte("old")))

	wantErr := errors.New("Invalid credentials")
	s := NewStore(repo, &fakeAuth{err: wantErr}, logging.Nop{})
	var rec recorder
	s.Subscribe(rec.fn)

	_, err := s.Login(ctx, models.LoginRequest{Username: "admin", Password: "bad"})
	require.ErrorIs(t, err, wantErr)

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", tok)
	assert.Empty(t, rec.all())
}

// failingRepo rejects batched writes.
type failingRepo struct {
	*storage.Memory
}

func (failingRepo) SetMany(context.Context, map[string][]byte) error {
	return errors.New("disk full")
}

func TestLogin_StorageFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	repo := failingRepo{Memory: storage.NewMemory()}
	s := NewStore(repo, &fakeAuth{resp: adminLogin()}, logging.Nop{})
	var rec recorder
	s.Subscribe(rec.fn)

	_, err := s.Login(ctx, models.LoginRequest{Username: "admin", Password: "admin123"})
	require.ErrorContains(t, err, "disk full")

	assert.False(t, s.IsAuthenticated(ctx))
	assert.Nil(t, s.CurrentUser(ctx))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, rec.all())
}

func TestLogout_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemory()
	s := NewStore(repo, &fakeAuth{resp: adminLogin()}, logging.Nop{})
	_, err := s.Login(ctx, models.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	var rec recorder
	s.Subscribe(rec.fn)

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.IsAuthenticated(ctx))
	assert.False(t, s.IsAdmin(ctx))
	assert.Nil(t, s.CurrentUser(ctx))

	left, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)

	events := rec.all()
	require.Len(t, events, 1, "second logout must not signal again")
	assert.False(t, events[0].Authenticated)
}

func TestLogout_WhenNeverLoggedIn(t *testing.T) {
	s := NewStore(storage.NewMemory(), &fakeAuth{}, logging.Nop{})
	var rec recorder
	s.Subscribe(rec.fn)

	require.NoError(t, s.Logout(context.Background()))
	assert.Empty(t, rec.all())
}

func TestIsAdmin_RoleAndCorruptProfile(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemory()
	s := NewStore(repo, &fakeAuth{}, logging.Nop{})

	require.NoError(t, repo.Set(ctx, common.StorageKeyToken, []byte("t")))
	require.NoError(t, repo.Set(ctx, common.StorageKeyUser, []byte(`{"username":"bob","role":"user"}`)))
	assert.True(t, s.IsAuthenticated(ctx))
	assert.False(t, s.IsAdmin(ctx))

	require.NoError(t, repo.Set(ctx, common.StorageKeyUser, []byte(`{not json`)))
	assert.Nil(t, s.CurrentUser(ctx))
	assert.False(t, s.IsAdmin(ctx))
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewMemory(), &fakeAuth{resp: adminLogin()}, logging.Nop{})

	var a, b recorder
	unsubA := s.Subscribe(a.fn)
	s.Subscribe(b.fn)
	unsubA()
	unsubA()

	_, err := s.Login(ctx, models.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	assert.Empty(t, a.all())
	assert.Len(t, b.all(), 1)
}

func TestWatch_ReportsExternalChangesOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shared := storage.NewMemory()
	clock := clockwork.NewFakeClock()
	watcher := NewStore(shared, &fakeAuth{resp: adminLogin()}, logging.Nop{}, WithClock(clock))
	other := NewStore(shared, &fakeAuth{resp: adminLogin()}, logging.Nop{})

	var rec recorder
	watcher.Subscribe(rec.fn)

	done := make(chan struct{})
	go func() {
		watcher.Watch(ctx, 2*time.Second)
		close(done)
	}()
	clock.BlockUntil(1)

	// another process logs in
	_, err := other.Login(ctx, models.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	e := rec.all()[0]
	assert.Equal(t, SourceExternal, e.Source)
	assert.True(t, e.Authenticated)

	// nothing changed: no further event
	clock.Advance(2 * time.Second)
	require.Never(t, func() bool { return len(rec.all()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	// another process logs out
	require.NoError(t, other.Logout(ctx))
	clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool { return len(rec.all()) == 2 }, time.Second, 5*time.Millisecond)
	assert.False(t, rec.all()[1].Authenticated)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_OwnWritesAreNotExternal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	s := NewStore(storage.NewMemory(), &fakeAuth{resp: adminLogin()}, logging.Nop{}, WithClock(clock))
	var rec recorder
	s.Subscribe(rec.fn)

	go s.Watch(ctx, time.Second)
	clock.BlockUntil(1)

	_, err := s.Login(ctx, models.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	clock.Advance(time.Second)

	require.Never(t, func() bool { return len(rec.all()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	require.Len(t, rec.all(), 1)
	assert.Equal(t, SourceLocal, rec.all()[0].Source)
}
