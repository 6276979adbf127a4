package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	logouts int
}

func (f *fakeSession) Token(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.logouts++
	return nil
}

func (f *fakeSession) authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token != ""
}

func newTestClient(t *testing.T, h http.HandlerFunc, sess Session, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, sess, opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://host", &fakeSession{})
	require.Error(t, err)
	_, err = New("://", &fakeSession{})
	require.Error(t, err)
}

func TestBearerHeader_AttachedWhenLoggedIn(t *testing.T) {
	var got []string
	h := func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.Metrics{})
	}
	sess := &fakeSession{token: "tok"}
	c := newTestClient(t, h, sess)

	_, err := c.Metrics(context.Background())
	require.NoError(t, err)

	sess.token = ""
	_, err = c.Metrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok", ""}, got)
}

func TestUnauthorized_ClearsSessionAndRunsHook(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
	}
	sess := &fakeSession{token: "stale"}
	redirected := 0
	c := newTestClient(t, h, sess, WithUnauthorizedHandler(func() { redirected++ }))

	_, err := c.SyncStatus(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "token expired", Message(err, "x"))

	assert.False(t, sess.authenticated(), "a 401 must clear the session")
	assert.Equal(t, 1, sess.logouts)
	assert.Equal(t, 1, redirected)
}

func TestErrorMessage_BackendTextOrFallback(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"backend message", http.StatusBadRequest, `{"error":"invalid region"}`, "invalid region"},
		{"empty error field", http.StatusInternalServerError, `{"error":""}`, "Failed to save settings"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Failed to save settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}
			c := newTestClient(t, h, &fakeSession{token: "t"})

			err := c.SaveAWSSettings(context.Background(), models.AWSSettings{Region: "nowhere"})
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, Message(err, "generic"))
			assert.False(t, IsUnauthorized(err))
		})
	}
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, &fakeSession{})
	require.NoError(t, err)

	_, err = c.Metrics(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Failed to add email", Message(err, "Failed to add email"))
}

func TestCancelledContext_IsReturnedAsIs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, &fakeSession{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Metrics(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"events": [`},
		{"missing pagination", `{"events": []}`},
		{"event without type", `{"events":[{"ID":1}],"pagination":{"page":1,"limit":50,"total":1,"totalPages":1}}`},
		{"bad limit", `{"events":[],"pagination":{"page":1,"limit":0,"total":0,"totalPages":0}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}, &fakeSession{})
			_, err := c.Events(context.Background(), models.EventsQuery{Page: 1, Limit: 50})
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestEvents_QueryAndDecode(t *testing.T) {
	var gotQuery string
	h := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events", r.URL.Path)
		gotQuery = r.URL.RawQuery
		events := make([]models.Event, 50)
		for i := range events {
			events[i] = models.Event{ID: 51 + i, EventType: models.EventTypeDelivery}
		}
		writeJSON(w, http.StatusOK, models.EventsPage{
			Events:     events,
			Pagination: &models.Pagination{Page: 2, Limit: 50, Total: 120, TotalPages: 3, HasNext: true, HasPrev: true},
		})
	}
	c := newTestClient(t, h, &fakeSession{token: "t"})

	page, err := c.Events(context.Background(), models.EventsQuery{Page: 2, Limit: 50, Search: "bounce", EndDate: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "end_date=2024-02-01&limit=50&page=2&search=bounce", gotQuery)
	assert.Len(t, page.Events, 50)
	assert.Equal(t, "Showing 51 to 100 of 120 results", page.Pagination.RangeText())
}

func TestSuppressionEndpoints_PathsAndBodies(t *testing.T) {
	type seen struct {
		method, path, body string
	}
	var calls []seen
	h := func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, seen{r.Method, r.URL.EscapedPath(), string(raw)})
		switch {
		case r.URL.Path == "/api/suppression/bulk":
			writeJSON(w, http.StatusOK, models.BulkResult{SuccessCount: 2, FailedCount: 1, FailedEmails: []string{"x@example.com"}})
		case r.URL.Path == "/api/suppression/sync":
			writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Sync triggered. Data will be updated in background."})
		default:
			writeJSON(w, http.StatusOK, models.MessageResponse{Message: "ok"})
		}
	}
	c := newTestClient(t, h, &fakeSession{token: "t"})
	ctx := context.Background()

	require.NoError(t, c.AddSuppression(ctx, "a+b@example.com", "Manually added"))
	require.NoError(t, c.RemoveSuppression(ctx, "a b@example.com"))
	res, err := c.BulkRemoveSuppressions(ctx, []string{"a@example.com", "b@example.com", "x@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x@example.com"}, res.FailedEmails)
	ack, err := c.TriggerSync(ctx)
	require.NoError(t, err)
	assert.Contains(t, ack, "Sync triggered")

	require.Len(t, calls, 4)
	assert.Equal(t, seen{"POST", "/api/suppression", `{"email":"a+b@example.com","reason":"Manually added"}`}, calls[0])
	assert.Equal(t, "DELETE", calls[1].method)
	assert.Equal(t, "/api/suppression/a%20b@example.com", calls[1].path)
	assert.Equal(t, seen{"DELETE", "/api/suppression/bulk", `{"emails":["a@example.com","b@example.com","x@example.com"]}`}, calls[2])
	assert.Equal(t, "POST", calls[3].method)
}

func TestUsersEndpoints(t *testing.T) {
	var paths []string
	h := func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, models.UsersList{Users: []models.User{{ID: 1, Username: "admin", Role: "admin", Active: true}}})
			return
		}
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "ok"})
	}
	c := newTestClient(t, h, &fakeSession{token: "t"})
	ctx := context.Background()

	users, err := c.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NoError(t, c.CreateUser(ctx, models.CreateUserRequest{Username: "bob", Password: "pw", Email: "bob@example.com", Role: "user"}))
	require.NoError(t, c.ResetPassword(ctx, 7, "new"))
	require.NoError(t, c.DisableUser(ctx, 7))
	require.NoError(t, c.EnableUser(ctx, 7))
	require.NoError(t, c.DeleteUser(ctx, 7))
	require.NoError(t, c.ChangePassword(ctx, "old", "new"))

	assert.Equal(t, []string{
		"GET /api/users",
		"POST /api/users",
		"PUT /api/users/7/reset-password",
		"PUT /api/users/7/disable",
		"PUT /api/users/7/enable",
		"DELETE /api/users/7",
		"PUT /api/change-password",
	}, paths)
}

func TestLogin_FailureCarriesBackendMessage(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}
	c := newTestClient(t, h, &fakeSession{})

	_, err := c.Login(context.Background(), models.LoginRequest{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", Message(err, "Login failed"))
}

func TestAuthTransport_DoesNotMutateCallerRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	tr := &AuthTransport{Session: &fakeSession{token: "tok"}}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Empty(t, req.Header.Get("Authorization"))
}
