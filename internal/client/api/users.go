package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var list models.UsersList
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/users", out: &list, failText: "Failed to load users"}); err != nil {
		return nil, err
	}
	return list.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/api/users", body: req, failText: "Failed to create user"})
}

func (c *Client) ResetPassword(ctx context.Context, id int, newPassword string) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/users/%d/reset-password", id),
		body:     models.ResetPasswordRequest{NewPassword: newPassword},
		failText: "Failed to reset password",
	})
}

func (c *Client) DisableUser(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/api/users/%d/disable", id), failText: "Failed to update user status"})
}

func (c *Client) EnableUser(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/api/users/%d/enable", id), failText: "Failed to update user status"})
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/api/users/%d", id), failText: "Failed to delete user"})
}
