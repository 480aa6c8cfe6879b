// Copyright (c) 2026 MangaMania. All rights reserved.

/*
Package api assembles the HTTP server from the domain handlers.

It owns the router, the middleware chain, and the server lifecycle
(startup and graceful shutdown). Domain packages stay unaware of each
other; this is the only place where they meet.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mangamania/api/internal/catalog"
	"github.com/mangamania/api/internal/collection"
	"github.com/mangamania/api/internal/platform/config"
	"github.com/mangamania/api/internal/platform/constants"
	"github.com/mangamania/api/internal/platform/middleware"
	"github.com/mangamania/api/internal/releases"
	"github.com/mangamania/api/internal/users/auth"
)

// Dependencies bundles everything the server needs from the composition root.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Verifier middleware.TokenVerifier

	AuthHandler       *auth.Handler
	CatalogHandler    *catalog.Handler
	CollectionHandler *collection.Handler
	ReleasesHandler   *releases.Handler
}

// Server wraps the HTTP server with its lifecycle management.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router and returns a ready-to-start server.
func NewServer(ctx context.Context, deps Dependencies) *Server {
	router := chi.NewRouter()

	// ── Middleware chain (order matters) ──
	router.Use(chimiddleware.CleanPath)
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(deps.Logger))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config))
	router.Use(middleware.Authenticate(deps.Verifier))

	// ── Operational probes ──
	health := newHealthHandler(deps.Pool, deps.Redis)
	router.Get("/health", health.liveness)
	router.Get("/ready", health.readiness)

	// ── Domain routes ──
	router.Route("/api/v1", func(apiRouter chi.Router) {
		apiRouter.Mount("/auth", deps.AuthHandler.Routes())
		apiRouter.Mount("/catalog", deps.CatalogHandler.Routes())
		apiRouter.Mount("/collection", deps.CollectionHandler.Routes())
		apiRouter.Mount("/releases", deps.ReleasesHandler.Routes())
		apiRouter.Mount("/calendar", deps.ReleasesHandler.CalendarRoutes())
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + deps.Config.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
		logger: deps.Logger,
	}
}

// Start begins serving. Blocks until the listener fails or is shut down.
func (server *Server) Start() error {
	server.logger.Info("http_server_listening",
		slog.String("addr", server.httpServer.Addr),
	)

	err := server.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (server *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
	defer cancel()

	server.logger.Info("http_server_shutting_down")
	return server.httpServer.Shutdown(shutdownCtx)
}
