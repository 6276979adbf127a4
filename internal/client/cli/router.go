package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/sesdash/internal/client/guard"
)

// command runs one page-specific command with the words after its name.
type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// screen is one routable page of the terminal UI.
type screen struct {
	title    string
	mount    func(ctx context.Context) error
	unmount  func()
	render   func()
	commands map[string]command
}

func (a *App) buildScreens() map[string]*screen {
	return map[string]*screen{
		guard.LoginPath: {
			title:  "Login",
			render: func() { fmt.Fprintln(a.out, "Type 'login' to sign in.") },
		},
		guard.LandingPath: {
			title:    "Dashboard",
			mount:    a.dashboard.Mount,
			render:   a.renderDashboard,
			commands: a.dashboardCommands(),
		},
		"/events": {
			title:    "Events",
			mount:    a.events.Mount,
			unmount:  a.events.Unmount,
			render:   a.renderEvents,
			commands: a.eventsCommands(),
		},
		"/analytics": {
			title:  "Analytics",
			mount:  a.analytics.Mount,
			render: a.renderAnalytics,
		},
		"/admin/users": {
			title:    "Users",
			mount:    a.users.Mount,
			render:   a.renderUsers,
			commands: a.usersCommands(),
		},
		"/admin/suppression": {
			title:    "Suppression list",
			mount:    a.suppression.Mount,
			unmount:  a.suppression.Unmount,
			render:   a.renderSuppression,
			commands: a.suppressionCommands(),
		},
		"/admin/settings": {
			title:    "Settings",
			mount:    a.mountSettings,
			unmount:  a.settings.Unmount,
			render:   a.renderSettings,
			commands: a.settingsCommands(),
		},
	}
}

// Navigate resolves path through the guard, leaves the current page and
// mounts the resulting one.
func (a *App) Navigate(ctx context.Context, path string) error {
	d := a.guard.Resolve(path)
	if d.Loading {
		a.guard.Check(ctx)
		d = a.guard.Resolve(path)
	}

	sc, ok := a.screens[d.Path]
	if !ok {
		return fmt.Errorf("no page for %s", d.Path)
	}
	if d.Redirected && guard.Normalize(path) != guard.RootPath {
		printlnFn(fmt.Sprintf("%s is not available, showing %s", guard.Normalize(path), d.Path))
	}

	a.unmount()

	a.mu.Lock()
	a.current = d.Path
	a.active = sc
	a.mu.Unlock()

	printlnFn("== " + sc.title + " ==")
	if sc.mount != nil {
		if err := sc.mount(ctx); err != nil {
			a.logger.Error(ctx, "page load failed", "path", d.Path, "error", err)
		}
	}
	sc.render()
	return nil
}

func (a *App) unmount() {
	a.mu.Lock()
	sc := a.active
	a.active = nil
	a.mu.Unlock()

	if sc != nil && sc.unmount != nil {
		sc.unmount()
	}
}

// Exec runs a command of the current page. It reports false when the page
// has no such command.
func (a *App) Exec(ctx context.Context, name string, args []string) bool {
	a.mu.Lock()
	sc, path := a.active, a.current
	a.mu.Unlock()
	if sc == nil {
		return false
	}

	if name == "show" {
		sc.render()
		return true
	}

	c, ok := sc.commands[name]
	if !ok {
		if name == "refresh" {
			_ = a.Navigate(ctx, path)
			return true
		}
		return false
	}
	if err := c.run(ctx, args); err != nil {
		a.report(err)
		return true
	}
	sc.render()
	return true
}

// pageHelp lists the commands of the current page.
func (a *App) pageHelp() string {
	a.mu.Lock()
	sc := a.active
	a.mu.Unlock()
	if sc == nil || len(sc.commands) == 0 {
		return ""
	}

	names := make([]string, 0, len(sc.commands))
	for _, c := range sc.commands {
		names = append(names, c.usage)
	}
	sort.Strings(names)
	return "Page commands: " + strings.Join(names, ", ")
}
