// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

const (
	// RefreshTokenCookieName carries the refresh token between browser and server.
	RefreshTokenCookieName = "refreshToken"

	// AuthorizationHeaderName is the inbound header inspected by the identity gate.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token inside the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName is echoed on every response for log correlation.
	RequestIDHeaderName = "X-Request-ID"
)
