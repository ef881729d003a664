package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rioadmin/account-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// statusFor maps a domain error onto its HTTP status and public message.
// Authentication failures are 401, authorization failures 403.
func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, "access denied, no token provided", true
	case errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, "token has expired", true
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "token is not valid", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrInsufficientPrivilege):
		return http.StatusForbidden, "admin privileges required", true
	case errors.Is(err, domain.ErrAccountDeactivated):
		return http.StatusForbidden, "account is deactivated", true
	case errors.Is(err, domain.ErrSelfModificationForbidden):
		return http.StatusForbidden, "cannot modify your own admin status", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid amount", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", true
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts, try again later", true
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable", true
	}
	return 0, "", false
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code, msg, ok := statusFor(err); ok {
		if code == http.StatusServiceUnavailable {
			log.Warn().Err(err).Str("path", c.Path()).Msg("store unavailable")
		}
		return code, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
