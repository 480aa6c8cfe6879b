// Copyright (c) 2026 MangaMania. All rights reserved.

package collection

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mangamania/api/internal/platform/apperr"
	"github.com/mangamania/api/internal/platform/middleware"
	requestutil "github.com/mangamania/api/internal/platform/request"
	"github.com/mangamania/api/internal/platform/respond"
	"github.com/mangamania/api/pkg/pagination"
)

// Handler exposes the library service over HTTP. Every route requires an
// authenticated user; the library is strictly per-user.
type Handler struct {
	service *Service
}

// NewHandler creates a new collection HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for the /collection subtree.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.add)
	router.Get("/stats", handler.stats)
	router.Get("/{malID}/exists", handler.exists)
	router.Patch("/{malID}", handler.update)
	router.Delete("/{malID}", handler.remove)

	return router
}

// list handles GET /api/v1/collection?page=N&limit=M
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	items, total, err := handler.service.List(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params, total))
}

// add handles POST /api/v1/collection
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input AddInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Add(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, item)
}

// update handles PATCH /api/v1/collection/{malID}
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	malID, err := malIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.UpdateProgress(request.Context(), userID, malID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, item)
}

// remove handles DELETE /api/v1/collection/{malID}
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	malID, err := malIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Remove(request.Context(), userID, malID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// exists handles GET /api/v1/collection/{malID}/exists
func (handler *Handler) exists(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	malID, err := malIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tracked, err := handler.service.Exists(request.Context(), userID, malID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"exists": tracked})
}

// stats handles GET /api/v1/collection/stats
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.service.Stats(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// malIDParam parses the {malID} URL parameter.
func malIDParam(request *http.Request) (int, error) {
	malID, err := strconv.Atoi(requestutil.Param(request, "malID"))
	if err != nil || malID <= 0 {
		return 0, apperr.ValidationError("Invalid manga ID")
	}
	return malID, nil
}
