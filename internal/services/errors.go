package services

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP status codes with
// errors.Is; anything outside the taxonomy is an internal failure.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)
