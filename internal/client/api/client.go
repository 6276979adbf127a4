// Package api is the typed HTTP client for the dashboard backend's REST
// surface. All requests go through AuthTransport, and every decoded body
// passes struct validation before it reaches a caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/go-playground/validator/v10"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	logger   logging.Logger
}

type options struct {
	base           http.RoundTripper
	onUnauthorized func()
	logger         logging.Logger
}

type Option func(*options)

// WithTransport sets the round tripper AuthTransport delegates to.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithUnauthorizedHandler registers the hook run after a 401 has cleared
// the session.
func WithUnauthorizedHandler(fn func()) Option {
	return func(o *options) { o.onUnauthorized = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a client for the backend reachable at baseURL (scheme and host,
// optionally a path prefix).
func New(baseURL string, session Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	o := options{logger: logging.Nop{}}
	for _, fn := range opts {
		fn(&o)
	}
	logger := o.logger.With("module", "api")

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http: &http.Client{Transport: &AuthTransport{
			Base:           o.base,
			Session:        session,
			OnUnauthorized: o.onUnauthorized,
			Logger:         logger,
		}},
		validate: validator.New(),
		logger:   logger,
	}, nil
}

type call struct {
	method   string
	path     string
	query    url.Values
	body     any
	out      any
	failText string
}

func (c *Client) do(ctx context.Context, cl call) error {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(ctx, resp, cl)
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, cl.method, cl.path, err)
	}
	if err := c.validate.Struct(cl.out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, cl.method, cl.path, err)
	}
	return nil
}

func (c *Client) errorFrom(ctx context.Context, resp *http.Response, cl call) error {
	apiErr := &Error{Status: resp.StatusCode, Message: cl.failText}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}

	c.logger.Debug(ctx, "request failed", "method", cl.method, "path", cl.path, "status", resp.StatusCode, "message", apiErr.Message)
	return apiErr
}

// IsUnauthorized reports whether err came from a 401 answer.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
