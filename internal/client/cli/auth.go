package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/guard"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/common"
)

// Login prompts for credentials, signs in and opens the landing page.
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.session.Login(ctx, models.LoginRequest{Username: username, Password: string(password)})
	if err != nil {
		a.logger.Warn(ctx, "login failed", "user", username, "error", err)
		printlnFn("Login failed:", api.Message(err, "Login failed"))
		return err
	}
	a.reroute.Store(false)

	printlnFn(fmt.Sprintf("Signed in as %s (%s)", resp.User.Username, resp.User.Role))
	return a.Navigate(ctx, guard.LandingPath)
}

// Logout clears the session and returns to the login page.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout failed", "error", err)
		printlnFn("Error:", err)
		return err
	}
	a.reroute.Store(false)
	printlnFn("Signed out.")
	return a.Navigate(ctx, guard.LoginPath)
}

// WhoAmI prints the signed-in profile.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.CurrentUser(ctx)
	if u == nil {
		printlnFn("Not signed in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> role=%s", u.Username, u.Email, u.Role))
	return nil
}

// ChangePassword changes the operator's own password.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := GetPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := GetPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	err = a.users.ChangePassword(ctx, string(oldPassword), string(newPassword))
	a.report(err)
	return err
}
