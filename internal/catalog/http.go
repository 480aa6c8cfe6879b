// Copyright (c) 2026 MangaMania. All rights reserved.

package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mangamania/api/internal/platform/apperr"
	requestutil "github.com/mangamania/api/internal/platform/request"
	"github.com/mangamania/api/internal/platform/respond"
	"github.com/mangamania/api/internal/platform/validate"
	"github.com/mangamania/api/pkg/pagination"
)

// maxQueryLen bounds the search term we forward upstream.
const maxQueryLen = 200

// Handler exposes the catalog service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new catalog HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for the /catalog subtree.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/search", handler.search)
	router.Get("/top", handler.top)
	router.Get("/{malID}", handler.getByID)

	return router
}

// search handles GET /api/v1/catalog/search?q=...&page=N
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := strings.TrimSpace(request.URL.Query().Get("q"))

	validator := &validate.Validator{}
	validator.
		Required("q", query).
		MaxLen("q", query, maxQueryLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pageFrom(request)

	result, err := handler.service.Search(request.Context(), query, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Entries, listMeta(page, result.Pagination))
}

// top handles GET /api/v1/catalog/top?page=N
func (handler *Handler) top(writer http.ResponseWriter, request *http.Request) {
	page := pageFrom(request)

	result, err := handler.service.Top(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Entries, listMeta(page, result.Pagination))
}

// getByID handles GET /api/v1/catalog/{malID}
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	malID, err := strconv.Atoi(requestutil.Param(request, "malID"))
	if err != nil || malID <= 0 {
		respond.Error(writer, request, apperr.ValidationError("Invalid manga ID"))
		return
	}

	entry, err := handler.service.GetByID(request.Context(), malID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// pageFrom extracts a sane 1-based page number from the query string.
func pageFrom(request *http.Request) int {
	page, err := strconv.Atoi(request.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// listMeta translates the upstream pagination block into the standard
// response metadata.
func listMeta(requestedPage int, indicators PageIndicators) pagination.Meta {
	page := indicators.CurrentPage
	if page < 1 {
		page = requestedPage
	}

	return pagination.Meta{
		Page:       page,
		Limit:      indicators.Items.PerPage,
		TotalItems: int64(indicators.Items.Total),
		TotalPages: indicators.LastVisiblePage,
		HasNext:    indicators.HasNextPage,
		HasPrev:    page > 1,
	}
}
