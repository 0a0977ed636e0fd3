// Package common defines the sentinel errors shared by the repository,
// service and transport layers. Callers should use errors.Is to match them;
// lower layers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("email already registered")
	ErrDuplicate = errors.New("record already exists")
	ErrStorage   = errors.New("storage error")

	// Validation errors.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrMissingCredentials = errors.New("no token provided")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
