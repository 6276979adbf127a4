package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

// Session is the part of the session store the transport needs.
type Session interface {
	Token(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

// AuthTransport decorates every outgoing request with the stored bearer
// token. Any 401 answer logs the session out and then runs OnUnauthorized,
// whatever request produced it.
type AuthTransport struct {
	Base           http.RoundTripper
	Session        Session
	OnUnauthorized func()
	Logger         logging.Logger
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := t.Session.Token(ctx)
	if err != nil {
		t.logger().Warn(ctx, "token lookup failed", "error", err)
	}

	// RoundTrippers must not modify the caller's request
	r := req.Clone(ctx)
	if token != "" {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := t.base().RoundTrip(r)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.logger().Warn(ctx, "unauthorized response, clearing session", "method", req.Method, "path", req.URL.Path)
		if err := t.Session.Logout(ctx); err != nil {
			t.logger().Error(ctx, "logout after 401 failed", "error", err)
		}
		if t.OnUnauthorized != nil {
			t.OnUnauthorized()
		}
	}
	return resp, nil
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) logger() logging.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return logging.Nop{}
}
