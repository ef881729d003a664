package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rioadmin/account-service/internal/api/metrics"
	"github.com/rioadmin/account-service/internal/core/domain"
	"github.com/rioadmin/account-service/internal/core/ports"
)

// LoginThrottle limits login attempts per client IP and route. The counter is
// cleared after a successful login. If the limiter store fails the request is
// let through.
func LoginThrottle(limiter ports.LoginLimiter, kind string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := c.RealIP() + ":" + c.Path()

			allowed, err := limiter.Allow(ctx, key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("login limiter unavailable, allowing attempt")
				allowed = true
			}
			if !allowed {
				metrics.LoginAttemptsTotal.WithLabelValues(kind, "throttled").Inc()
				return domain.ErrTooManyAttempts
			}

			if err := next(c); err != nil {
				metrics.LoginAttemptsTotal.WithLabelValues(kind, "failure").Inc()
				return err
			}

			if c.Response().Status == http.StatusOK {
				metrics.LoginAttemptsTotal.WithLabelValues(kind, "success").Inc()
				if err := limiter.Reset(ctx, key); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("login limiter reset failed")
				}
			} else {
				metrics.LoginAttemptsTotal.WithLabelValues(kind, "failure").Inc()
			}
			return nil
		}
	}
}
