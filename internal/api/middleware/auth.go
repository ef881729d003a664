package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/rioadmin/account-service/internal/api/metrics"
	"github.com/rioadmin/account-service/internal/core/domain"
	"github.com/rioadmin/account-service/internal/core/ports"
)

// PrincipalKey is the echo context key holding the authenticated principal.
const PrincipalKey = "principal"

// Auth resolves the Authorization header through the gate and injects the
// principal into context. Failures are returned as domain errors for the
// central error handler to map.
func Auth(gate ports.Authorizer) echo.MiddlewareFunc {
	return authorize(gate.Authorize)
}

// AdminAuth is Auth for routes that additionally require the admin role.
func AdminAuth(gate ports.Authorizer) echo.MiddlewareFunc {
	return authorize(gate.AuthorizeAdmin)
}

func authorize(fn func(ctx context.Context, rawHeader string) (*domain.Principal, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := fn(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}
			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal injected by Auth or AdminAuth.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*domain.Principal)
	return p, ok && p != nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrAccountDeactivated):
		return "account_deactivated"
	case errors.Is(err, domain.ErrInsufficientPrivilege):
		return "insufficient_privilege"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "other"
	}
}
