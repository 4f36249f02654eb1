package auth

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard registered claims plus the subject user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// GenerateToken signs an HS256 token for userID that expires validity after
// issuedAt. It returns the expiry exactly as encoded in the token (whole
// seconds). Every token gets a random jti so two tokens minted in the same
// second still differ.
func GenerateToken(userID string, secretKey []byte, issuedAt time.Time, validity time.Duration) (string, time.Time, error) {
	expiresAt := jwt.NewNumericDate(issuedAt.Add(validity))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: expiresAt,
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt.Time, nil
}

// GetUserIDFromToken verifies tokenString against secretKey at now and
// returns the embedded user ID. Every failure (bad signature, wrong
// algorithm, expiry, malformed input, missing subject) is reported as
// common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte, now func() time.Time) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// TokenCodec signs and verifies access and refresh tokens. The two token
// classes use separate secrets, so a refresh token never passes as an
// access token and vice versa.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenCodec builds a codec from the secrets and lifetimes in cfg.
func NewTokenCodec(cfg *config.Config) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshTTL:    cfg.RefreshTokenValidityDuration,
		now:           time.Now,
	}
}

// WithClock replaces the codec clock and returns c.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// SignAccess mints a short-lived access token for userID.
func (c *TokenCodec) SignAccess(userID string) (string, error) {
	token, _, err := GenerateToken(userID, c.accessSecret, c.now(), c.accessTTL)
	return token, err
}

// SignRefresh mints a refresh token for userID and returns its expiry.
func (c *TokenCodec) SignRefresh(userID string) (string, time.Time, error) {
	return GenerateToken(userID, c.refreshSecret, c.now(), c.refreshTTL)
}

// VerifyAccess returns the user ID of a valid access token.
func (c *TokenCodec) VerifyAccess(token string) (string, error) {
	return c.Verify(token, c.accessSecret)
}

// VerifyRefresh returns the user ID of a valid refresh token.
func (c *TokenCodec) VerifyRefresh(token string) (string, error) {
	return c.Verify(token, c.refreshSecret)
}

// Verify checks token against secret using the codec clock.
func (c *TokenCodec) Verify(token string, secret []byte) (string, error) {
	return GetUserIDFromToken(token, secret, c.now)
}

// Now returns the codec's current time.
func (c *TokenCodec) Now() time.Time {
	return c.now()
}

// RefreshTTL is the lifetime of refresh tokens and their cookie.
func (c *TokenCodec) RefreshTTL() time.Duration {
	return c.refreshTTL
}
