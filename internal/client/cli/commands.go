package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/dmitrijs2005/sesdash/internal/common"
)

var errUsage = errors.New("wrong arguments")

// report prints a failed command. Request failures already shown on the
// banner are not repeated.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	var usage usageError
	if errors.As(err, &usage) {
		printlnFn("Usage:", usage.usage)
		return
	}
	if m, visible := a.banner.Current(); visible && m.Kind == status.KindError {
		return
	}
	printlnFn("Error:", api.Message(err, err.Error()))
}

type usageError struct{ usage string }

func (u usageError) Error() string { return errUsage.Error() + ": " + u.usage }

func (u usageError) Unwrap() error { return errUsage }

func pageArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, usageError{usage}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usageError{usage}
	}
	return n, nil
}

func rest(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func (a *App) dashboardCommands() map[string]command {
	return map[string]command{
		"refresh": {usage: "refresh", run: func(ctx context.Context, _ []string) error {
			return a.dashboard.Refresh(ctx)
		}},
	}
}

func (a *App) eventsCommands() map[string]command {
	e := a.events
	return map[string]command{
		"next":  {usage: "next", run: func(ctx context.Context, _ []string) error { return e.Next(ctx) }},
		"prev":  {usage: "prev", run: func(ctx context.Context, _ []string) error { return e.Prev(ctx) }},
		"first": {usage: "first", run: func(ctx context.Context, _ []string) error { return e.First(ctx) }},
		"last":  {usage: "last", run: func(ctx context.Context, _ []string) error { return e.Last(ctx) }},
		"page": {usage: "page N", run: func(ctx context.Context, args []string) error {
			n, err := pageArg(args, "page N")
			if err != nil {
				return err
			}
			return e.GoTo(ctx, n)
		}},
		"size": {usage: "size N", run: func(ctx context.Context, args []string) error {
			n, err := pageArg(args, "size N")
			if err != nil {
				return err
			}
			return e.SetPageSize(ctx, n)
		}},
		"search": {usage: "search [TEXT]", run: func(ctx context.Context, args []string) error {
			e.TypeSearch(rest(args))
			return e.SubmitSearch(ctx)
		}},
		"from": {usage: "from [YYYY-MM-DD]", run: func(ctx context.Context, args []string) error {
			return e.SetStartDate(ctx, rest(args))
		}},
		"to": {usage: "to [YYYY-MM-DD]", run: func(ctx context.Context, args []string) error {
			return e.SetEndDate(ctx, rest(args))
		}},
		"clear": {usage: "clear", run: func(ctx context.Context, _ []string) error { return e.ClearFilters(ctx) }},
	}
}

func (a *App) usersCommands() map[string]command {
	u := a.users
	userID := func(args []string, usage string) (int, error) {
		return pageArg(args, usage)
	}
	return map[string]command{
		"add": {usage: "add", run: func(ctx context.Context, _ []string) error {
			req, err := a.promptNewUser()
			if err != nil {
				return err
			}
			return u.Create(ctx, req)
		}},
		"reset": {usage: "reset ID", run: func(ctx context.Context, args []string) error {
			id, err := userID(args, "reset ID")
			if err != nil {
				return err
			}
			pw, err := GetPassword(a.out, "New password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)
			return u.ResetPassword(ctx, id, string(pw))
		}},
		"toggle": {usage: "toggle ID", run: func(ctx context.Context, args []string) error {
			id, err := userID(args, "toggle ID")
			if err != nil {
				return err
			}
			return u.ToggleActive(ctx, id)
		}},
		"delete": {usage: "delete ID", run: func(ctx context.Context, args []string) error {
			id, err := userID(args, "delete ID")
			if err != nil {
				return err
			}
			return u.Delete(ctx, id)
		}},
	}
}

func (a *App) promptNewUser() (models.CreateUserRequest, error) {
	var req models.CreateUserRequest
	var err error
	if req.Username, err = GetSimpleText(a.reader, "Username", a.out); err != nil {
		return req, err
	}
	if req.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return req, err
	}
	if req.Role, err = GetSimpleText(a.reader, "Role (user/admin, empty for user)", a.out); err != nil {
		return req, err
	}
	pw, err := GetPassword(a.out, "Password")
	if err != nil {
		return req, err
	}
	req.Password = string(pw)
	common.WipeByteArray(pw)
	return req, nil
}

func (a *App) suppressionCommands() map[string]command {
	s := a.suppression
	return map[string]command{
		"next": {usage: "next", run: func(ctx context.Context, _ []string) error { return s.Next(ctx) }},
		"prev": {usage: "prev", run: func(ctx context.Context, _ []string) error { return s.Prev(ctx) }},
		"page": {usage: "page N", run: func(ctx context.Context, args []string) error {
			n, err := pageArg(args, "page N")
			if err != nil {
				return err
			}
			return s.GoTo(ctx, n)
		}},
		"search": {usage: "search [TEXT]", run: func(ctx context.Context, args []string) error {
			s.TypeSearch(rest(args))
			return s.SubmitSearch(ctx)
		}},
		"add": {usage: "add EMAIL [REASON]", run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return usageError{"add EMAIL [REASON]"}
			}
			return s.Add(ctx, args[0], rest(args[1:]))
		}},
		"remove": {usage: "remove EMAIL", run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageError{"remove EMAIL"}
			}
			return s.Remove(ctx, args[0])
		}},
		"bulkadd": {usage: "bulkadd [REASON]", run: func(ctx context.Context, args []string) error {
			text, err := GetMultiline(a.reader, "Emails, one per line", a.out)
			if err != nil {
				return err
			}
			return s.BulkAdd(ctx, text, rest(args))
		}},
		"bulkremove": {usage: "bulkremove", run: func(ctx context.Context, _ []string) error {
			text := ""
			if len(s.Selected()) == 0 {
				var err error
				if text, err = GetMultiline(a.reader, "Emails, one per line", a.out); err != nil {
					return err
				}
			}
			return s.BulkRemove(ctx, text)
		}},
		"select": {usage: "select EMAIL|all", run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return usageError{"select EMAIL|all"}
			}
			if args[0] == "all" {
				s.SelectAll()
			} else {
				s.Toggle(args[0])
			}
			return nil
		}},
		"status": {usage: "status EMAIL", run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageError{"status EMAIL"}
			}
			_, err := s.CheckStatus(ctx, args[0])
			return err
		}},
		"sync": {usage: "sync", run: func(ctx context.Context, _ []string) error { return s.TriggerSync(ctx) }},
	}
}

// settingsDraft holds unsaved edits to the settings page.
type settingsDraft struct {
	aws       models.AWSSettings
	retention models.RetentionSettings
	timezone  models.TimezoneSettings
}

func (a *App) mountSettings(ctx context.Context) error {
	err := a.settings.Mount(ctx)
	v := a.settings.View()

	a.mu.Lock()
	a.draft = settingsDraft{aws: v.AWS, retention: v.Retention, timezone: v.Timezone}
	a.mu.Unlock()
	return err
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "on", "yes", "enabled":
		return true, nil
	case "false", "off", "no", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}

const setUsage = "set region|access-key|secret|aws-enabled|sync-interval|retention|retention-enabled|timezone VALUE"

func (a *App) setDraft(args []string) error {
	if len(args) == 0 {
		return usageError{setUsage}
	}
	field, value := args[0], rest(args[1:])

	if field == "secret" {
		pw, err := GetPassword(a.out, "Secret access key")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(pw)
		value = string(pw)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	d := &a.draft

	var err error
	switch field {
	case "region":
		d.aws.Region = value
	case "access-key":
		d.aws.AccessKey = value
	case "secret":
		d.aws.SecretKey = value
	case "aws-enabled":
		d.aws.Enabled, err = parseBool(value)
	case "sync-interval":
		d.aws.SyncInterval, err = strconv.Atoi(value)
	case "retention":
		d.retention.RetentionDays, err = strconv.Atoi(value)
	case "retention-enabled":
		d.retention.Enabled, err = parseBool(value)
	case "timezone":
		d.timezone.Timezone = value
	default:
		return usageError{setUsage}
	}
	return err
}

func (a *App) settingsCommands() map[string]command {
	st := a.settings
	draft := func() settingsDraft {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.draft
	}
	return map[string]command{
		"set": {usage: "set FIELD VALUE", run: func(_ context.Context, args []string) error {
			return a.setDraft(args)
		}},
		"save": {usage: "save aws|retention|timezone", run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageError{"save aws|retention|timezone"}
			}
			d := draft()
			switch args[0] {
			case "aws":
				return st.SaveAWS(ctx, d.aws)
			case "retention":
				return st.SaveRetention(ctx, d.retention)
			case "timezone":
				return st.SaveTimezone(ctx, d.timezone)
			}
			return usageError{"save aws|retention|timezone"}
		}},
		"test": {usage: "test", run: func(ctx context.Context, _ []string) error {
			return st.TestAWS(ctx, draft().aws)
		}},
		"reset": {usage: "reset", run: func(ctx context.Context, _ []string) error {
			return a.mountSettings(ctx)
		}},
	}
}
