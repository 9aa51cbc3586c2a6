// Package common defines shared constants and sentinel errors used across
// the server, the HTTP transport and the CLI client. Callers should use
// errors.Is to match these values; most of them are returned wrapped.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("incorrect username or password")

	// Validation errors; details are appended with fmt.Errorf("%w: ...").
	ErrValidation = errors.New("validation error")

	// Auth errors. ErrInvalidToken covers malformed, tampered and expired
	// tokens; ErrTokenExpired is additionally attached to expired ones.
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrInactive        = errors.New("inactive user")

	// Upstream (currency rates service) errors.
	ErrUpstreamUnavailable = errors.New("currency conversion service unavailable")
	ErrUnsupportedCurrency = errors.New("currency not supported")
)
