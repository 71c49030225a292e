// Package common defines shared constants and sentinel errors used across
// the client and server layers of Antivity. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Account errors.
	ErrUsernameTaken = errors.New("username already taken")

	// Session assembly errors.
	ErrNoUploadedItems = errors.New("no images were successfully uploaded")
)
