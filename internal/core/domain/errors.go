package domain

import "errors"

// Authentication failures.
var (
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authorization failures.
var (
	ErrInsufficientPrivilege     = errors.New("admin privileges required")
	ErrAccountDeactivated        = errors.New("account is deactivated")
	ErrSelfModificationForbidden = errors.New("cannot modify your own admin status")
)

// Validation, lookup and infrastructure failures.
var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrTooManyAttempts  = errors.New("too many login attempts")
	ErrStoreUnavailable = errors.New("store unavailable")
)
