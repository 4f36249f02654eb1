package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// TokenIssuer is the subset of auth.TokenCodec used by the services.
type TokenIssuer interface {
	SignAccess(userID string) (string, error)
	SignRefresh(userID string) (string, time.Time, error)
	VerifyRefresh(token string) (string, error)
	Now() time.Time
}

// RefreshTokenStore persists refresh tokens and is the revocation authority
// for them: a valid refresh JWT without a stored row is not accepted.
// Every method takes the handle to run on so callers can compose it into
// a transaction.
type RefreshTokenStore struct {
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
}

func NewRefreshTokenStore(m repomanager.RepositoryManager, tokens TokenIssuer) *RefreshTokenStore {
	return &RefreshTokenStore{repomanager: m, tokens: tokens}
}

// Create signs a refresh token for userID and stores it with the expiry
// encoded in the token.
func (s *RefreshTokenStore) Create(ctx context.Context, db dbx.DBTX, userID string) (*models.RefreshToken, error) {
	token, expiresAt, err := s.tokens.SignRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("error signing refresh token: %w", err)
	}

	rt, err := s.repomanager.RefreshTokens(db).Create(ctx, &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return rt, nil
}

// FindByToken returns common.ErrorNotFound when token is not stored.
func (s *RefreshTokenStore) FindByToken(ctx context.Context, db dbx.DBTX, token string) (*models.RefreshToken, error) {
	return s.repomanager.RefreshTokens(db).Find(ctx, token)
}

func (s *RefreshTokenStore) DeleteByID(ctx context.Context, db dbx.DBTX, id string) error {
	return s.repomanager.RefreshTokens(db).DeleteByID(ctx, id)
}

func (s *RefreshTokenStore) DeleteByToken(ctx context.Context, db dbx.DBTX, token string) error {
	return s.repomanager.RefreshTokens(db).DeleteByToken(ctx, token)
}

// DeleteAllForUser revokes every refresh token of userID.
func (s *RefreshTokenStore) DeleteAllForUser(ctx context.Context, db dbx.DBTX, userID string) error {
	return s.repomanager.RefreshTokens(db).DeleteAllForUser(ctx, userID)
}
