// Package rest exposes the session lifecycle over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the session core consumed by the handlers.
type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.Session, error)
	Signin(ctx context.Context, in services.SigninInput) (*services.Session, error)
	Refresh(ctx context.Context, token string) (*services.RefreshResult, error)
	Signout(ctx context.Context, token string) error
	SignoutAll(ctx context.Context, userID string) error
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// Authenticator resolves an Authorization header to a user ID.
type Authenticator interface {
	Authenticate(header string) (string, error)
}

// Limiters groups the request budgets. A nil limiter disables that budget.
type Limiters struct {
	Auth ratelimit.Limiter
	API  ratelimit.Limiter
}

type Server struct {
	address         string
	logger          logging.Logger
	users           UserService
	gate            Authenticator
	limiters        Limiters
	cookieSecure    bool
	refreshMaxAge   int
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, gate Authenticator, lim Limiters) *Server {
	registerJSONTagNames()

	s := &Server{
		address:         cfg.EndpointAddrHTTP,
		logger:          l.With("module", "rest_server"),
		users:           us,
		gate:            gate,
		limiters:        lim,
		cookieSecure:    cfg.CookieSecure(),
		refreshMaxAge:   int(cfg.RefreshTokenValidityDuration / time.Second),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the configured gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
