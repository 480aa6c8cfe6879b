// Copyright (c) 2026 MangaMania. All rights reserved.

// Command api is the MangaMania API server.
//
// It wires configuration, storage, the upstream catalog client, and the
// domain services together, then serves HTTP until interrupted.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mangamania/api/internal/api"
	"github.com/mangamania/api/internal/catalog"
	"github.com/mangamania/api/internal/collection"
	"github.com/mangamania/api/internal/platform/config"
	"github.com/mangamania/api/internal/platform/constants"
	"github.com/mangamania/api/internal/platform/migration"
	"github.com/mangamania/api/internal/platform/postgres"
	"github.com/mangamania/api/internal/platform/redis"
	"github.com/mangamania/api/internal/platform/sec"
	"github.com/mangamania/api/internal/releases"
	"github.com/mangamania/api/internal/users/auth"
)

// sessionPurgeInterval is how often expired refresh sessions are swept.
const sessionPurgeInterval = 6 * time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("startup_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration ─────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ── 2. Logging ───────────────────────────────────────────────────────
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("starting",
		slog.String("service", constants.AppName),
		slog.String("version", constants.AppVersion),
		slog.String("environment", cfg.Environment),
	)

	// ── 3. Database ──────────────────────────────────────────────────────
	if err := migration.Run(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	// ── 4. Cache ─────────────────────────────────────────────────────────
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	// ── 5. Security ──────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return err
	}

	// ── 6. Domain Services ───────────────────────────────────────────────
	authService := auth.NewService(
		auth.NewPostgresUserRepository(pool),
		auth.NewPostgresSessionRepository(pool),
		tokenService,
		logger,
	)

	catalogService := catalog.NewService(
		catalog.NewClient(cfg.CatalogBaseURL),
		catalog.NewRedisCache(redisClient),
		logger,
	)

	releaseService := releases.NewService(catalogService, logger)

	collectionService := collection.NewService(
		collection.NewPostgresRepository(pool),
		logger,
	)

	// ── 7. Background Maintenance ────────────────────────────────────────
	go purgeSessionsLoop(ctx, authService, logger)

	// ── 8. HTTP Server ───────────────────────────────────────────────────
	server := api.NewServer(ctx, api.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Pool:     pool,
		Redis:    redisClient,
		Verifier: tokenService,

		AuthHandler:       auth.NewHandler(authService, cfg.IsProduction()),
		CatalogHandler:    catalog.NewHandler(catalogService),
		CollectionHandler: collection.NewHandler(collectionService),
		ReleasesHandler:   releases.NewHandler(releaseService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// ── 9. Wait for Shutdown Signal ──────────────────────────────────────
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutdown_signal_received")
	}

	return server.Shutdown(context.Background())
}

// purgeSessionsLoop periodically removes expired refresh sessions.
func purgeSessionsLoop(ctx context.Context, service *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := service.PurgeExpiredSessions(ctx); err != nil {
				logger.Warn("session_purge_failed", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			return
		}
	}
}
