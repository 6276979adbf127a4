package pages

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu     sync.Mutex
	users  []models.User
	lists  int
	calls  []string
	failOn string
	block  chan struct{}
}

func (f *fakeUsers) Users(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeUsers) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	fail, block := f.failOn == call, f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if fail {
		return &api.Error{Status: http.StatusBadRequest, Message: "Username already exists"}
	}
	return nil
}

func (f *fakeUsers) CreateUser(_ context.Context, req models.CreateUserRequest) error {
	if err := f.record("create:" + req.Username + ":" + req.Role); err != nil {
		return err
	}
	f.mu.Lock()
	f.users = append(f.users, models.User{ID: len(f.users) + 1, Username: req.Username, Role: req.Role, Active: true})
	f.mu.Unlock()
	return nil
}

func (f *fakeUsers) ResetPassword(context.Context, int, string) error { return f.record("reset") }
func (f *fakeUsers) DisableUser(context.Context, int) error           { return f.record("disable") }
func (f *fakeUsers) EnableUser(context.Context, int) error            { return f.record("enable") }
func (f *fakeUsers) DeleteUser(context.Context, int) error            { return f.record("delete") }

func (f *fakeUsers) ChangePassword(context.Context, string, string) error {
	return f.record("change-password")
}

func (f *fakeUsers) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func TestUsers_CreateDefaultsRoleAndRefetches(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeUsers{}
	u := NewUsers(src, deps)
	ctx := context.Background()
	require.NoError(t, u.Mount(ctx))

	require.NoError(t, u.Create(ctx, models.CreateUserRequest{Username: "ops", Password: "pw", Email: "ops@x.io"}))
	assert.Equal(t, []string{"create:ops:" + common.RoleUser}, src.calls)
	assert.Equal(t, 2, src.listCount())
	assert.Len(t, u.View().Users, 1)
	assert.Equal(t, "User created successfully", bannerText(deps))

	assert.ErrorIs(t, u.Create(ctx, models.CreateUserRequest{Username: "x"}), ErrEmptyInput)
}

func TestUsers_FailureShowsBackendMessage(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeUsers{failOn: "create:ops:admin"}
	u := NewUsers(src, deps)
	ctx := context.Background()
	require.NoError(t, u.Mount(ctx))

	assert.Error(t, u.Create(ctx, models.CreateUserRequest{Username: "ops", Password: "pw", Role: "admin"}))
	assert.Equal(t, "Username already exists", bannerText(deps))
	assert.Equal(t, 1, src.listCount())
}

func TestUsers_ToggleActive(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeUsers{users: []models.User{
		{ID: 1, Username: "a", Role: "user", Active: true},
		{ID: 2, Username: "b", Role: "user", Active: false},
	}}
	u := NewUsers(src, deps)
	ctx := context.Background()
	require.NoError(t, u.Mount(ctx))

	require.NoError(t, u.ToggleActive(ctx, 1))
	assert.Equal(t, "User disabled successfully", bannerText(deps))
	require.NoError(t, u.ToggleActive(ctx, 2))
	assert.Equal(t, "User enabled successfully", bannerText(deps))
	assert.Equal(t, []string{"disable", "enable"}, src.calls)

	assert.ErrorIs(t, u.ToggleActive(ctx, 99), ErrUnknownUser)
}

func TestUsers_SecondTriggerWhileBusy(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeUsers{block: make(chan struct{})}
	u := NewUsers(src, deps)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- u.Delete(ctx, 3) }()
	require.Eventually(t, func() bool { return u.Busy("delete:3") }, waitFor, time.Millisecond)

	assert.ErrorIs(t, u.Delete(ctx, 3), ErrBusy)

	close(src.block)
	require.NoError(t, <-done)
	assert.False(t, u.Busy("delete:3"))
	assert.Equal(t, "User deleted successfully", bannerText(deps))
}

func TestUsers_ChangePasswordDoesNotRefetch(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeUsers{}
	u := NewUsers(src, deps)
	ctx := context.Background()

	require.NoError(t, u.ChangePassword(ctx, "old", "new"))
	assert.Equal(t, 0, src.listCount())
	assert.Equal(t, "Password changed successfully", bannerText(deps))
	assert.ErrorIs(t, u.ChangePassword(ctx, "", "new"), ErrEmptyInput)
}
