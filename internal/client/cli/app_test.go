package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/guard"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/session"
	"github.com/dmitrijs2005/sesdash/internal/client/storage"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fakeBackend answers the endpoints the dashboard and events pages use.
func fakeBackend(role string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pw" {
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{
			Token: "tok",
			User:  models.User{ID: 1, Username: req.Username, Role: role, Active: true},
		})
	})
	mux.HandleFunc("/api/metrics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.Metrics{Counts: models.Counts{TotalEvents: 42, SendCount: 20}})
	})
	mux.HandleFunc("/api/metrics/daily", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.DailySeries{})
	})
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Token expired"})
	})
	return mux
}

type testApp struct {
	app   *App
	repo  *storage.Memory
	store *session.Store
	out   *syncBuffer
}

func newTestApp(t *testing.T, role, script string) *testApp {
	t.Helper()
	out := capture(t)

	prev := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { readPassword = prev })

	srv := httptest.NewServer(fakeBackend(role))
	t.Cleanup(srv.Close)

	repo := storage.NewMemory()
	auth := &clientAuth{}
	store := session.NewStore(repo, auth, logging.Nop{})

	var app *App
	client, err := api.New(srv.URL, store, api.WithUnauthorizedHandler(func() { app.onUnauthorized() }))
	require.NoError(t, err)
	auth.client = client

	app = newApp(store, client, logging.Nop{}, options{
		clock: clockwork.NewFakeClock(),
		in:    strings.NewReader(script),
		out:   out,
	})
	return &testApp{app: app, repo: repo, store: store, out: out}
}

func TestApp_StartsOnLoginPage(t *testing.T) {
	ta := newTestApp(t, "user", "help\n")
	ta.app.Run(context.Background())

	out := ta.out.String()
	assert.Contains(t, out, "== Login ==")
	assert.NotContains(t, out, "is not available")
	assert.Contains(t, out, "Available commands: login, exit")
}

func TestApp_LoginOpensDashboard(t *testing.T) {
	ta := newTestApp(t, "user", "login\nalice\nwhoami\n")
	ta.app.Run(context.Background())

	out := ta.out.String()
	assert.Contains(t, out, "Signed in as alice (user)")
	assert.Contains(t, out, "== Dashboard ==")
	assert.Contains(t, out, "Total events: 42")
	assert.Contains(t, out, "sesdash (alice user) /dashboard> ")

	token, err := ta.store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestApp_FailedLoginStaysOnLogin(t *testing.T) {
	ta := newTestApp(t, "user", "")
	readPassword = func(int) ([]byte, error) { return []byte("wrong"), nil }

	err := ta.app.Navigate(context.Background(), guard.RootPath)
	require.NoError(t, err)
	ta.app.reader.Reset(strings.NewReader("alice\n"))
	require.Error(t, ta.app.Login(context.Background()))
	ta.app.afterCommand(context.Background())

	out := ta.out.String()
	assert.Contains(t, out, "Login failed: Invalid credentials")
	assert.NotContains(t, out, "Your session has ended")
	assert.Equal(t, guard.LoginPath, ta.app.current)
}

func TestApp_UserIsKeptOutOfAdminPages(t *testing.T) {
	ta := newTestApp(t, "user", "login\nalice\ngo /admin/users\n")
	ta.app.Run(context.Background())

	out := ta.out.String()
	assert.Contains(t, out, "/admin/users is not available, showing /dashboard")
	assert.NotContains(t, out, "== Users ==")
}

func TestApp_UnauthorizedReturnsToLogin(t *testing.T) {
	ta := newTestApp(t, "admin", "login\nroot\ngo /events\n")
	ta.app.Run(context.Background())

	out := ta.out.String()
	assert.Contains(t, out, "== Events ==")
	assert.Contains(t, out, "Your session has ended. Please log in again.")
	assert.True(t, strings.LastIndex(out, "== Login ==") > strings.Index(out, "== Events =="))
	assert.False(t, ta.store.IsAuthenticated(context.Background()))
}

func TestApp_UnknownPageCommand(t *testing.T) {
	ta := newTestApp(t, "user", "login\nalice\nnext\n")
	ta.app.Run(context.Background())
	assert.Contains(t, ta.out.String(), "Unknown command: next")
}

func TestApp_UsageErrors(t *testing.T) {
	ta := newTestApp(t, "user", "")
	ta.app.report(usageError{"page N"})
	assert.Contains(t, ta.out.String(), "Usage: page N")
}
