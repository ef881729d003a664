package ports

import "github.com/rioadmin/account-service/internal/core/domain"

// TokenCodec is the only component allowed to sign or verify access tokens.
type TokenCodec interface {
	Issue(claims domain.TokenClaims) (string, error)
	// Verify returns domain.ErrTokenMalformed, domain.ErrTokenBadSignature or
	// domain.ErrTokenExpired on failure.
	Verify(token string) (*domain.TokenClaims, error)
}
