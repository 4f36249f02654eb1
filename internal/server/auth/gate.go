package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

type ctxKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the user ID stored by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKey{}).(string)
	return userID, ok && userID != ""
}

// ParseBearer extracts the token from an Authorization header of exactly
// the form "Bearer <token>".
func ParseBearer(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// Authenticate resolves an Authorization header to a user ID using the
// access secret only. It never consults storage. Any malformed header or
// invalid token yields common.ErrUnauthenticated.
func (c *TokenCodec) Authenticate(header string) (string, error) {
	token, ok := ParseBearer(header)
	if !ok {
		return "", common.ErrUnauthenticated
	}

	userID, err := c.VerifyAccess(token)
	if err != nil {
		return "", common.ErrUnauthenticated
	}

	return userID, nil
}
