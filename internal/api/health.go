// Copyright (c) 2026 MangaMania. All rights reserved.

package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"

	"github.com/mangamania/api/internal/platform/constants"
	"github.com/mangamania/api/internal/platform/postgres"
	"github.com/mangamania/api/internal/platform/redis"
	"github.com/mangamania/api/internal/platform/respond"
)

type healthHandler struct {
	pool  *pgxpool.Pool
	redis *redisclient.Client
}

func newHealthHandler(pool *pgxpool.Pool, redis *redisclient.Client) *healthHandler {
	return &healthHandler{pool: pool, redis: redis}
}

// liveness handles GET /health. It reports that the process is up; it makes
// no claims about dependencies.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": constants.AppName,
		"version": constants.AppVersion,
	})
}

// readiness handles GET /ready. It verifies the database and cache are
// reachable, so load balancers stop routing before a dependency outage
// turns into request errors.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	healthy := true

	if err := postgres.Ping(request.Context(), handler.pool); err != nil {
		checks["database"] = "unreachable"
		healthy = false
	}

	if err := redis.Ping(request.Context(), handler.redis); err != nil {
		checks["cache"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}
