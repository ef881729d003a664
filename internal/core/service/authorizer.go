package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rioadmin/account-service/internal/core/domain"
	"github.com/rioadmin/account-service/internal/core/ports"
)

// Authorizer is the gate in front of every protected route.
type Authorizer struct {
	codec         ports.TokenCodec
	users         ports.UserRepository
	adminUsername string
	log           zerolog.Logger
}

// NewAuthorizer returns an Authorizer that recognises adminUsername as the
// reserved admin identity. An empty adminUsername disables that path.
func NewAuthorizer(codec ports.TokenCodec, users ports.UserRepository, adminUsername string, log zerolog.Logger) *Authorizer {
	return &Authorizer{
		codec:         codec,
		users:         users,
		adminUsername: adminUsername,
		log:           log,
	}
}

// Authorize resolves rawHeader ("Bearer <token>") into a principal.
func (a *Authorizer) Authorize(ctx context.Context, rawHeader string) (*domain.Principal, error) {
	token, err := bearerToken(rawHeader)
	if err != nil {
		return nil, err
	}

	claims, err := a.codec.Verify(token)
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return nil, domain.ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	// Reserved admin identity: a server-signed token with these claims is
	// trusted as is. The user store is never consulted on this path.
	if a.isReservedAdmin(claims) {
		return domain.NewAdminPrincipal(a.adminUsername), nil
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrInvalidToken)
	}

	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	return domain.NewUserPrincipal(user), nil
}

// AuthorizeAdmin is Authorize plus a role check. A valid non-admin principal
// yields domain.ErrInsufficientPrivilege rather than an authentication error.
func (a *Authorizer) AuthorizeAdmin(ctx context.Context, rawHeader string) (*domain.Principal, error) {
	p, err := a.Authorize(ctx, rawHeader)
	if err != nil {
		return nil, err
	}
	if !p.HasRole(domain.RoleAdmin) {
		a.log.Debug().Str("principal_id", p.ID()).Msg("admin route refused for non-admin principal")
		return nil, domain.ErrInsufficientPrivilege
	}
	return p, nil
}

func (a *Authorizer) isReservedAdmin(claims *domain.TokenClaims) bool {
	return a.adminUsername != "" &&
		claims.Role == domain.RoleAdmin &&
		claims.Subject == a.adminUsername
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingToken
	}
	return token, nil
}
