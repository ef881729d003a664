package domain

import (
	"errors"
	"time"
)

// Token codec failures. The authorization gate folds Malformed and
// BadSignature into ErrInvalidToken.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)

// TokenClaims is the verified payload of an access token.
// Role is empty for user tokens; the admin token sets it to "admin".
type TokenClaims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
