package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rioadmin/account-service/internal/api/middleware"
	"github.com/rioadmin/account-service/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. Its
// absence means the route was registered without Auth, which is treated as an
// unauthenticated request rather than a server error.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return p, nil
}
