// Package refreshtokens declares the server-side repository contract for
// refresh tokens and its PostgreSQL implementation.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository defines operations for storing, retrieving and revoking refresh tokens.
type Repository interface {
	// Create stores token and fills in ID (when empty) and CreatedAt.
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)

	// Find looks up a refresh token by its token string.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteByID, DeleteByToken and DeleteAllForUser are idempotent:
	// removing nothing is not an error.
	DeleteByID(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
