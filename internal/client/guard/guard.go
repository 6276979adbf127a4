// Package guard decides which page a path resolves to for the current
// authentication state.
package guard

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/session"
)

// Well-known paths.
const (
	RootPath    = "/"
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateUser
	StateAdmin
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateUser:
		return "user"
	case StateAdmin:
		return "admin"
	default:
		return "loading"
	}
}

func (s State) authenticated() bool {
	return s == StateUser || s == StateAdmin
}

type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin
)

// Routes maps every renderable path to the access it requires.
var Routes = map[string]Access{
	LoginPath:            AccessPublic,
	LandingPath:          AccessAuthenticated,
	"/events":            AccessAuthenticated,
	"/analytics":         AccessAuthenticated,
	"/admin/users":       AccessAdmin,
	"/admin/suppression": AccessAdmin,
	"/admin/settings":    AccessAdmin,
}

// AuthState is what the guard reads from the session.
type AuthState interface {
	IsAuthenticated(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
}

// Subscriber delivers session change notifications.
type Subscriber interface {
	Subscribe(fn func(session.Event)) (unsubscribe func())
}

// Decision is the outcome of resolving a path. While the first auth check
// has not run, Loading is set and Path is empty.
type Decision struct {
	Path       string
	Redirected bool
	Loading    bool
}

type Guard struct {
	auth AuthState

	mu       sync.Mutex
	state    State
	onChange func(State)
}

func New(auth AuthState) *Guard {
	return &Guard{auth: auth, state: StateLoading}
}

// OnChange registers fn to run whenever a check moves the guard to a new
// state.
func (g *Guard) OnChange(fn func(State)) {
	g.mu.Lock()
	g.onChange = fn
	g.mu.Unlock()
}

// Check re-reads the session and updates the state.
func (g *Guard) Check(ctx context.Context) State {
	next := StateUnauthenticated
	if g.auth.IsAuthenticated(ctx) {
		next = StateUser
		if g.auth.IsAdmin(ctx) {
			next = StateAdmin
		}
	}

	g.mu.Lock()
	changed := next != g.state
	g.state = next
	fn := g.onChange
	g.mu.Unlock()

	if changed && fn != nil {
		fn(next)
	}
	return next
}

// Bind runs Check now and again on every session notification.
func (g *Guard) Bind(ctx context.Context, sub Subscriber) (unbind func()) {
	unbind = sub.Subscribe(func(session.Event) { g.Check(ctx) })
	g.Check(ctx)
	return unbind
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Resolve maps a requested path to the page to render. Unknown paths are
// treated like the root.
func (g *Guard) Resolve(path string) Decision {
	state := g.State()
	if state == StateLoading {
		return Decision{Loading: true}
	}

	path = Normalize(path)
	access, known := Routes[path]
	if !known {
		return redirect(path, home(state))
	}

	switch access {
	case AccessPublic:
		if state.authenticated() {
			return redirect(path, LandingPath)
		}
	case AccessAuthenticated:
		if !state.authenticated() {
			return redirect(path, LoginPath)
		}
	case AccessAdmin:
		if !state.authenticated() {
			return redirect(path, LoginPath)
		}
		if state != StateAdmin {
			return redirect(path, LandingPath)
		}
	}
	return Decision{Path: path}
}

func home(s State) string {
	if s.authenticated() {
		return LandingPath
	}
	return LoginPath
}

func redirect(from, to string) Decision {
	return Decision{Path: to, Redirected: from != to}
}

// Normalize cleans up operator input: adds the leading slash and drops a
// trailing one and any query string.
func Normalize(path string) string {
	path, _, _ = strings.Cut(strings.TrimSpace(path), "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = RootPath
		}
	}
	return path
}

// AdminOnly reports whether path requires the admin role.
func AdminOnly(path string) bool {
	return Routes[Normalize(path)] == AccessAdmin
}
