package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

// Login satisfies session.Authenticator.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/login", body: req, out: &resp, failText: "Login failed"})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/api/change-password",
		body:     models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword},
		failText: "Failed to change password",
	})
}
