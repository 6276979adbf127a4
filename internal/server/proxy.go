package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
)

// ProxiedPrefixes are forwarded to the backend with the path untouched.
var ProxiedPrefixes = []string{"/api", "/sns", "/swagger"}

// ErrBadBackendURL is returned for a backend origin that is not absolute
// http(s).
var ErrBadBackendURL = errors.New("backend url must be an absolute http(s) url")

// isProxied reports whether path belongs to one of the forwarded trees.
// "/api" and "/api/..." match, "/apix" does not.
func isProxied(path string) bool {
	for _, p := range ProxiedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

type upstreamErrKey struct{}

// Forwarder relays requests to the backend. Transport failures are counted
// by a circuit breaker; while it is open requests are answered with 503
// without touching the backend.
type Forwarder struct {
	proxy   *httputil.ReverseProxy
	breaker *gobreaker.CircuitBreaker
	logger  logging.Logger
}

// BreakerSettings configures when the forwarder stops calling the backend.
type BreakerSettings struct {
	// Failures is the number of consecutive transport failures that open
	// the breaker.
	Failures int
	// Timeout is how long the breaker stays open before a probe request.
	Timeout time.Duration
}

func NewForwarder(backendURL string, bs BreakerSettings, logger logging.Logger) (*Forwarder, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBackendURL, err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadBackendURL, backendURL)
	}
	if bs.Failures < 1 {
		bs.Failures = 1
	}

	f := &Forwarder{logger: logger.With("module", "proxy")}

	f.proxy = &httputil.ReverseProxy{
		// SetURL keeps the incoming path and query below the target and
		// sends the target's host as Host.
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: f.upstreamError,
	}

	failures := uint32(bs.Failures)
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "backend",
		Timeout: bs.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.logger.Warn(context.Background(), "circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return f, nil
}

func (f *Forwarder) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	// A caller that went away says nothing about the backend.
	if slot, ok := r.Context().Value(upstreamErrKey{}).(*error); ok && r.Context().Err() == nil {
		*slot = err
	}
	f.logger.Error(r.Context(), "backend request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	w.WriteHeader(http.StatusBadGateway)
}

// Handle forwards the request held by c.
func (f *Forwarder) Handle(c *gin.Context) {
	_, err := f.breaker.Execute(func() (interface{}, error) {
		var upstreamErr error
		req := c.Request.WithContext(context.WithValue(c.Request.Context(), upstreamErrKey{}, &upstreamErr))
		f.proxy.ServeHTTP(c.Writer, req)
		return nil, upstreamErr
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service is unavailable"})
	}
}

// State reports the breaker state, e.g. for logging at shutdown.
func (f *Forwarder) State() gobreaker.State {
	return f.breaker.State()
}
