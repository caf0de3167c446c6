// Package common defines shared constants and sentinel errors used across
// the ideapool server layers. Callers should use errors.Is to match these
// values; lower layers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Request-shape errors.
	ErrValidation = errors.New("validation error")

	// Registration errors.
	ErrConflict = errors.New("user already exists")

	// Session errors.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnauthenticated      = errors.New("missing authentication")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")

	// Token decoding errors.
	ErrTokenExpired   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")

	// Service-level catch-all for infrastructure failures.
	ErrInternal = errors.New("internal error")
)
