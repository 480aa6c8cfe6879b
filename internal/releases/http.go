// Copyright (c) 2026 MangaMania. All rights reserved.

package releases

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mangamania/api/internal/platform/apperr"
	requestutil "github.com/mangamania/api/internal/platform/request"
	"github.com/mangamania/api/internal/platform/respond"
)

const (
	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 50
)

// Handler exposes the release schedule over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new releases HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for the /releases subtree.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getAll)
	router.Get("/today", handler.today)
	router.Get("/upcoming", handler.upcoming)
	router.Get("/date/{date}", handler.forDate)
	router.Get("/month/{year}/{month}", handler.forMonth)

	return router
}

// CalendarRoutes returns the router for the /calendar subtree.
func (handler *Handler) CalendarRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{year}/{month}", handler.calendar)

	return router
}

// getAll handles GET /api/v1/releases
func (handler *Handler) getAll(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.GetAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// today handles GET /api/v1/releases/today
func (handler *Handler) today(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Today(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// upcoming handles GET /api/v1/releases/upcoming?limit=N
func (handler *Handler) upcoming(writer http.ResponseWriter, request *http.Request) {
	limit := defaultUpcomingLimit
	if raw := request.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			limit = parsed
			if limit > maxUpcomingLimit {
				limit = maxUpcomingLimit
			}
		}
	}

	result, err := handler.service.Upcoming(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// forDate handles GET /api/v1/releases/date/{date}
func (handler *Handler) forDate(writer http.ResponseWriter, request *http.Request) {
	date, err := time.Parse(DateLayout, requestutil.Param(request, "date"))
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Date must be formatted YYYY-MM-DD"))
		return
	}

	result, err := handler.service.ForDate(request.Context(), date)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// forMonth handles GET /api/v1/releases/month/{year}/{month}
func (handler *Handler) forMonth(writer http.ResponseWriter, request *http.Request) {
	year, month, err := yearMonthParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ForMonth(request.Context(), year, month)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// calendar handles GET /api/v1/calendar/{year}/{month}
func (handler *Handler) calendar(writer http.ResponseWriter, request *http.Request) {
	year, month, err := yearMonthParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.MonthGrid(request.Context(), year, month)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// yearMonthParams parses and bounds-checks the {year}/{month} URL parameters.
func yearMonthParams(request *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(requestutil.Param(request, "year"))
	if err != nil || year < 1900 || year > 2200 {
		return 0, 0, apperr.ValidationError("Invalid year")
	}

	monthNumber, err := strconv.Atoi(requestutil.Param(request, "month"))
	if err != nil || monthNumber < 1 || monthNumber > 12 {
		return 0, 0, apperr.ValidationError("Invalid month")
	}

	return year, time.Month(monthNumber), nil
}
