// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the rental marketplace HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the credential hasher and token services.
//  7. Wire domain services and handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xcalibur215/mmhub/internal/admin"
	"github.com/xcalibur215/mmhub/internal/api"
	"github.com/xcalibur215/mmhub/internal/listing/property"
	"github.com/xcalibur215/mmhub/internal/moderation"
	"github.com/xcalibur215/mmhub/internal/platform/config"
	"github.com/xcalibur215/mmhub/internal/platform/constants"
	"github.com/xcalibur215/mmhub/internal/platform/migration"
	pgstore "github.com/xcalibur215/mmhub/internal/platform/postgres"
	redisstore "github.com/xcalibur215/mmhub/internal/platform/redis"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/account"
	"github.com/xcalibur215/mmhub/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Duration("access_token_ttl", cfg.AccessTokenTTL),
		slog.Int("login_max_attempts", cfg.LoginMaxAttempts),
	)

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Credentials & Tokens ───────────────────────────────────────────
	hasher := sec.NewHasher(cfg.BcryptCost)

	codec, err := sec.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTIssuer)
	must(log, err, "initialize token codec")
	tokens := sec.NewTokenService(codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	loginLimiter := auth.NewLoginLimiter(rdb, cfg.LoginWindow)
	authService := auth.NewService(userRepository, loginLimiter, hasher, tokens, auth.Options{
		MaxAttempts: cfg.LoginMaxAttempts,
	})
	authenticator := auth.NewAuthenticator(tokens, auth.NewResolver(userRepository))

	accountService := account.NewService(account.NewRepository(pool))
	propertyService := property.NewService(property.NewRepository(pool))
	moderationService := moderation.NewService(moderation.NewRepository(pool))

	liveness, readiness := api.NewHealthHandlers(log,
		api.Probe{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		api.Probe{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authenticator, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Accounts:   account.NewHandler(accountService),
		Properties: property.NewHandler(propertyService),
		Moderation: moderation.NewHandler(moderationService),
		Admin:      admin.NewHandler(admin.NewStats(pool), accountService, propertyService),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Stops the rate limiter's cleanup loop.
	serverCancel()

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// Only startup wiring uses it.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
