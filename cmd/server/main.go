// @title           Rio Account Service API
// @version         1.0
// @description     User accounts, authentication and admin balance/role management.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rioadmin/account-service/internal/api"
	"github.com/rioadmin/account-service/internal/core/service"
	mongodb "github.com/rioadmin/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/rioadmin/account-service/internal/infrastructure/db/redis"
	"github.com/rioadmin/account-service/internal/infrastructure/http/handlers"
	"github.com/rioadmin/account-service/internal/infrastructure/queue"
	"github.com/rioadmin/account-service/internal/pkg/config"
	"github.com/rioadmin/account-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		// Init is a no-op when run already configured the logger.
		log := logger.Init(logger.Options{Level: "error"})
		log.Fatal().Err(err).Msg("server exited")
	}
}

// run wires the service and blocks until SIGINT/SIGTERM. Every resource it
// opens is released through defers before it returns.
func run() error {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "account-service",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db, cfg.StoreTimeout)
	auditRepo := mongodb.NewAuditRepository(db, cfg.StoreTimeout)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}

	// Audit workers outlive the request context so queued entries drain on shutdown.
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	dispatcher.Start(auditCtx)
	defer func() {
		cancelAudit()
		dispatcher.Wait()
	}()

	codec := service.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	authorizer := service.NewAuthorizer(codec, userRepo, cfg.Admin.Username, logger.Component("authorizer"))
	authService := service.NewAuthService(userRepo, codec, service.AdminCredentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, logger.Component("auth"))
	adminService := service.NewAdminService(userRepo, dispatcher, logger.Component("admin"))

	e := api.NewRouter(api.Dependencies{
		Log:          logger.Component("http"),
		Authorizer:   authorizer,
		AuthService:  authService,
		AdminService: adminService,
		LoginLimiter: redisdb.NewLoginLimiter(rdb, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow),
		ReadinessChecks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		RateLimitRPM:   cfg.RateLimit.RequestsPerMinute,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
	return nil
}
