package pages

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

type UsersSource interface {
	Users(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) error
	ResetPassword(ctx context.Context, id int, newPassword string) error
	DisableUser(ctx context.Context, id int) error
	EnableUser(ctx context.Context, id int) error
	DeleteUser(ctx context.Context, id int) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// Users is the admin account list.
type Users struct {
	src     UsersSource
	logger  logging.Logger
	actions *actions
	data    loader[[]models.User]
}

func NewUsers(src UsersSource, deps Deps) *Users {
	deps = deps.withDefaults("users")
	return &Users{src: src, logger: deps.Logger, actions: newActions(deps.Banner)}
}

func (u *Users) Mount(ctx context.Context) error {
	return u.reload(ctx)
}

func (u *Users) reload(ctx context.Context) error {
	_, err := u.data.run(ctx, false, func(ctx context.Context) (*[]models.User, error) {
		list, err := u.src.Users(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		u.logger.Error(ctx, "failed to load users", "error", err)
	}
	return err
}

// mutate runs one admin action and re-fetches the list when it succeeds.
func (u *Users) mutate(ctx context.Context, name, okText, failText string, fn func(context.Context) error) error {
	return u.actions.do(ctx, name, func(ctx context.Context) (status.Message, error) {
		if err := fn(ctx); err != nil {
			u.logger.Error(ctx, failText, "error", err)
			return status.Error(api.Message(err, failText)), err
		}
		_ = u.reload(ctx)
		return status.Success(okText), nil
	})
}

func (u *Users) Create(ctx context.Context, req models.CreateUserRequest) error {
	if req.Username == "" || req.Password == "" {
		return ErrEmptyInput
	}
	if req.Role == "" {
		req.Role = common.RoleUser
	}
	return u.mutate(ctx, "create", "User created successfully", "Failed to create user", func(ctx context.Context) error {
		return u.src.CreateUser(ctx, req)
	})
}

func (u *Users) ResetPassword(ctx context.Context, id int, newPassword string) error {
	if newPassword == "" {
		return ErrEmptyInput
	}
	return u.mutate(ctx, "reset-password:"+strconv.Itoa(id), "Password reset successfully", "Failed to reset password", func(ctx context.Context) error {
		return u.src.ResetPassword(ctx, id, newPassword)
	})
}

// ToggleActive disables an active account and enables an inactive one.
func (u *Users) ToggleActive(ctx context.Context, id int) error {
	user, ok := u.find(id)
	if !ok {
		return ErrUnknownUser
	}
	name := "toggle:" + strconv.Itoa(id)
	if user.Active {
		return u.mutate(ctx, name, "User disabled successfully", "Failed to update user status", func(ctx context.Context) error {
			return u.src.DisableUser(ctx, id)
		})
	}
	return u.mutate(ctx, name, "User enabled successfully", "Failed to update user status", func(ctx context.Context) error {
		return u.src.EnableUser(ctx, id)
	})
}

func (u *Users) Delete(ctx context.Context, id int) error {
	return u.mutate(ctx, "delete:"+strconv.Itoa(id), "User deleted successfully", "Failed to delete user", func(ctx context.Context) error {
		return u.src.DeleteUser(ctx, id)
	})
}

// ChangePassword changes the signed-in operator's own password. The list is
// not affected.
func (u *Users) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrEmptyInput
	}
	return u.actions.do(ctx, "change-password", func(ctx context.Context) (status.Message, error) {
		if err := u.src.ChangePassword(ctx, oldPassword, newPassword); err != nil {
			return status.Error(api.Message(err, "Failed to change password")), err
		}
		return status.Success("Password changed successfully"), nil
	})
}

// Busy reports whether the named action is running, e.g. "create" or
// "delete:7".
func (u *Users) Busy(action string) bool {
	return u.actions.busy(action)
}

func (u *Users) find(id int) (models.User, bool) {
	snap := u.data.snapshot()
	if snap.data == nil {
		return models.User{}, false
	}
	for _, user := range *snap.data {
		if user.ID == id {
			return user, true
		}
	}
	return models.User{}, false
}

type UsersView struct {
	Loading bool
	HasData bool
	Users   []models.User
}

func (u *Users) View() UsersView {
	snap := u.data.snapshot()
	if snap.loading {
		return UsersView{Loading: true}
	}
	if snap.data == nil {
		return UsersView{}
	}
	return UsersView{HasData: true, Users: *snap.data}
}
