// Package mockbackend is an in-memory stand-in for the SES monitoring API.
// It serves the same routes and response bodies as the real backend so the
// dashboard, the proxy server and the monitor can be run and tested without
// a database or an AWS account.
package mockbackend

import (
	"time"

	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
)

// Server holds the handler dependencies.
type Server struct {
	store     *Store
	clock     clockwork.Clock
	secret    []byte
	tokenTTL  time.Duration
	syncDelay time.Duration
	topicARN  string
	checker   CredentialChecker
	validate  *validator.Validate
	logger    logging.Logger
}

type Option func(*Server)

func WithClock(c clockwork.Clock) Option {
	return func(s *Server) { s.clock = c }
}

func WithChecker(c CredentialChecker) Option {
	return func(s *Server) { s.checker = c }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func NewServer(store *Store, cfg *Config, opts ...Option) *Server {
	s := &Server{
		store:     store,
		clock:     clockwork.NewRealClock(),
		secret:    []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		syncDelay: cfg.SyncDelay,
		topicARN:  cfg.SNSTopicARN,
		checker:   StaticChecker{},
		validate:  validator.New(),
		logger:    logging.Nop{},
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "mockbackend")
	return s
}
