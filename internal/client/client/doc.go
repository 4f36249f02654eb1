// Package client talks to the gophauth server over HTTP.
//
// # Overview
//
// HTTPClient implements the Client contract. It keeps the access token in
// memory and the refresh token in a cookie jar, the way a browser would,
// so the refresh cookie is never visible to callers. Calls that need an
// access token are retried once after a transparent refresh when the
// server answers 401.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. Non-2xx responses are
// returned as *APIError, which unwraps to ErrInvalidInput, ErrUnauthorized,
// ErrNotFound, ErrConflict, ErrRateLimited or ErrServer, so callers can
// match them with errors.Is.
package client
