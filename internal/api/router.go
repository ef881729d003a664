package api

import (
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/rioadmin/account-service/docs"
	"github.com/rioadmin/account-service/internal/api/handler"
	"github.com/rioadmin/account-service/internal/api/middleware"
	"github.com/rioadmin/account-service/internal/core/ports"
	"github.com/rioadmin/account-service/internal/infrastructure/http/handlers"
)

// Dependencies are the wired services the router mounts.
type Dependencies struct {
	Log             zerolog.Logger
	Authorizer      ports.Authorizer
	AuthService     ports.AuthService
	AdminService    ports.AdminService
	LoginLimiter    ports.LoginLimiter
	ReadinessChecks map[string]handlers.Check
	RateLimitRPM    int
	// TrustedProxies are CIDRs whose X-Forwarded-For is believed. With none,
	// the client IP is the socket peer and forwarding headers are ignored.
	TrustedProxies []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.IPExtractor = ipExtractor(deps.TrustedProxies, deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	adminHandler := handler.NewAdminHandler(deps.AdminService)

	api := e.Group("/api", middleware.NewRateLimiter(deps.RateLimitRPM).Middleware())

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login, middleware.LoginThrottle(deps.LoginLimiter, "user", deps.Log))
	auth.GET("/dashboard", authHandler.Dashboard, middleware.Auth(deps.Authorizer))

	// --- Admin routes ---
	api.POST("/admin/login", authHandler.AdminLogin, middleware.LoginThrottle(deps.LoginLimiter, "admin", deps.Log))

	admin := api.Group("/admin", middleware.AdminAuth(deps.Authorizer))
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.PUT("/users/:userId/balance", adminHandler.AdjustBalance)
	admin.POST("/users/:userId/admin", adminHandler.SetAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// ipExtractor decides what c.RealIP returns, which keys the per-IP limiter
// and the login throttle.
func ipExtractor(trusted []string, log zerolog.Logger) echo.IPExtractor {
	var ranges []echo.TrustOption
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			log.Warn().Str("cidr", cidr).Msg("ignoring invalid trusted proxy range")
			continue
		}
		ranges = append(ranges, echo.TrustIPRange(ipNet))
	}
	if len(ranges) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := append([]echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}, ranges...)
	return echo.ExtractIPFromXFFHeader(opts...)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
