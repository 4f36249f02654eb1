package models

import "time"

// RefreshToken is a persisted refresh credential. Token is the signed JWT
// handed to the client; ExpiresAt equals the expiry encoded inside it.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the row is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
