// Package common defines shared constants and sentinel errors used across
// the server and client layers of gophauth. Callers should use errors.Is and
// errors.As to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level error kinds. The REST boundary maps each kind to a status code.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Token errors. Every verification failure collapses to ErrInvalidToken.
	ErrInvalidToken = errors.New("invalid token")
)

// Error is a classified failure with a message that is safe to show to the
// caller. It unwraps to its Kind so errors.Is(err, ErrorUnauthorized) works
// for every unauthorized variant.
type Error struct {
	Kind    error
	Message string
}

// NewError returns a classified error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

var (
	ErrMissingSignupFields = NewError(ErrorValidation, "Missing email, name or password")
	ErrMissingSigninFields = NewError(ErrorValidation, "Missing email or password")
	ErrUserExists          = NewError(ErrorAlreadyExists, "User already exists")
	ErrUserNotFound        = NewError(ErrorNotFound, "User not found")

	// Signin failures share one message whether the email is unknown or the
	// password is wrong.
	ErrInvalidCredentials = NewError(ErrorUnauthorized, "Invalid credentials")
	ErrUnauthenticated    = NewError(ErrorUnauthorized, "Unauthorized")

	// ErrRefreshTokenExpired reports a refresh token whose stored row outlived
	// its expiry. The row is already deleted when this is returned.
	ErrRefreshTokenExpired = NewError(ErrorUnauthorized, "Unauthorized")
)

// PublicMessage returns the caller-safe text for err. Unclassified errors
// yield fallback.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
