// Package services contains server-side business logic. UserService runs
// the session lifecycle: signup, signin, access token refresh and signout,
// backed by server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type SigninInput struct {
	Email    string
	Password string
}

// Session is the outcome of a successful signup or signin.
type Session struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *models.User
}

// RefreshResult carries a new access token. RefreshToken is set only when
// rotation replaced the presented token.
type RefreshResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Rotated reports whether a replacement refresh token was issued.
func (r *RefreshResult) Rotated() bool {
	return r.RefreshToken != ""
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
	store       *RefreshTokenStore
	rotate      bool

	logger logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// fallbackDummyHash is a cost-10 bcrypt hash of a discarded random password.
// It stands in when hashing the dummy password fails.
const fallbackDummyHash = "$2a$10$UxnfYRzbSQznO7zGekLQyO9qwevVFRGzqXfcxFlDdHhIHQ9eSJ/Bi"

// NewUserService constructs a UserService using repositories, credential
// primitives and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenIssuer, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		store:       NewRefreshTokenStore(m, tokens),
		rotate:      cfg.RotateRefreshTokens,
		logger:      l,
	}
}

// Signup registers a user and opens a session. The user row and its first
// refresh token are written in one transaction.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, common.ErrMissingSignupFields
	}

	_, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, in.Email)
	if err == nil {
		return nil, common.ErrUserExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var (
		user *models.User
		rt   *models.RefreshToken
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        in.Email,
			PasswordHash: hash,
			Name:         in.Name,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrUserExists
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		rt, err = s.store.Create(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.openSession(user, rt)
}

// Signin checks credentials and opens a new session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Signin(ctx context.Context, in SigninInput) (*Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, common.ErrMissingSigninFields
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(in.Password, s.dummy(ctx))
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	rt, err := s.store.Create(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}

	return s.openSession(user, rt)
}

// Refresh exchanges a stored, unexpired refresh token for a new access
// token. A stored token past its expiry is deleted and reported as
// common.ErrRefreshTokenExpired.
func (s *UserService) Refresh(ctx context.Context, token string) (*RefreshResult, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	userID, err := s.tokens.VerifyRefresh(token)
	if err != nil {
		return nil, s.reapIfExpired(ctx, token)
	}

	rt, err := s.store.FindByToken(ctx, s.db, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if rt.UserID != userID {
		return nil, common.ErrUnauthenticated
	}
	if rt.Expired(s.tokens.Now()) {
		if err := s.store.DeleteByID(ctx, s.db, rt.ID); err != nil {
			return nil, fmt.Errorf("error deleting refresh token: %w", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	access, err := s.tokens.SignAccess(rt.UserID)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}
	res := &RefreshResult{AccessToken: access}

	if !s.rotate {
		return res, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.DeleteByID(ctx, tx, rt.ID); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		next, err := s.store.Create(ctx, tx, rt.UserID)
		if err != nil {
			return err
		}
		res.RefreshToken = next.Token
		res.RefreshExpiresAt = next.ExpiresAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Signout revokes token. An empty or unknown token is not an error.
func (s *UserService) Signout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteByToken(ctx, s.db, token); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// SignoutAll revokes every refresh token held by userID.
func (s *UserService) SignoutAll(ctx context.Context, userID string) error {
	if userID == "" {
		return common.ErrUnauthenticated
	}
	if err := s.store.DeleteAllForUser(ctx, s.db, userID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	return nil
}

// Profile returns the account of userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// --- helpers below ---

func (s *UserService) openSession(user *models.User, rt *models.RefreshToken) (*Session, error) {
	access, err := s.tokens.SignAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}
	return &Session{
		AccessToken:      access,
		RefreshToken:     rt.Token,
		RefreshExpiresAt: rt.ExpiresAt,
		User:             user,
	}, nil
}

// reapIfExpired handles a refresh token that failed verification. A token
// found in storage was issued here, so if its row is past expiry the row
// is removed and the caller learns the session expired.
func (s *UserService) reapIfExpired(ctx context.Context, token string) error {
	rt, err := s.store.FindByToken(ctx, s.db, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUnauthenticated
		}
		return fmt.Errorf("error searching refresh token: %w", err)
	}
	if !rt.Expired(s.tokens.Now()) {
		return common.ErrUnauthenticated
	}
	if err := s.store.DeleteByID(ctx, s.db, rt.ID); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return common.ErrRefreshTokenExpired
}

// dummy returns a hash of a random password. Signin compares against it when
// the email is unknown, so both paths pay for a bcrypt comparison.
func (s *UserService) dummy(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		s.dummyHash = fallbackDummyHash

		pw, err := common.MakeRandHexString(16)
		if err != nil {
			s.logger.Error(ctx, "error generating dummy password", "error", err)
			return
		}
		hash, err := s.hasher.Hash(pw)
		if err != nil {
			s.logger.Error(ctx, "error hashing dummy password", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
