// Copyright (c) 2026 MangaMania. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mangamania/api/internal/platform/constants"
	"github.com/mangamania/api/internal/platform/middleware"
	requestutil "github.com/mangamania/api/internal/platform/request"
	"github.com/mangamania/api/internal/platform/respond"
)

// Handler exposes the authentication service over HTTP.
type Handler struct {
	service *Service
	secure  bool
}

// NewHandler creates a new auth HTTP handler.
// secureCookies should be true in production so refresh cookies are HTTPS-only.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secure: secureCookies}
}

// Routes returns the router for the /auth subtree.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/refresh", handler.refresh)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.me)
	})

	return router
}

// # Request / Response Shapes

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   int     `json:"expires_in"`
	User        Profile `json:"user"`
}

// # Handlers

// register handles POST /api/v1/auth/register
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var body registerRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	credentials, err := handler.service.Register(
		request.Context(),
		body.Email,
		body.Password,
		body.DisplayName,
		handler.clientInfo(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, credentials.RefreshToken)
	respond.Created(writer, credentialsResponse{
		AccessToken: credentials.AccessToken,
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
		User:        credentials.User,
	})
}

// login handles POST /api/v1/auth/login
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	credentials, err := handler.service.Login(
		request.Context(),
		body.Email,
		body.Password,
		handler.clientInfo(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, credentials.RefreshToken)
	respond.OK(writer, credentialsResponse{
		AccessToken: credentials.AccessToken,
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
		User:        credentials.User,
	})
}

// logout handles POST /api/v1/auth/logout
//
// Always returns 204, even for anonymous callers; the end state is identical.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Logout(request.Context(), handler.refreshTokenFrom(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// refresh handles POST /api/v1/auth/refresh
//
// Exchanges the refresh cookie for a new token pair. Used by the web client
// for silent re-authentication when the access token expires.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	credentials, err := handler.service.RefreshSession(
		request.Context(),
		handler.refreshTokenFrom(request),
		handler.clientInfo(request),
	)
	if err != nil {
		handler.clearRefreshCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, credentials.RefreshToken)
	respond.OK(writer, credentialsResponse{
		AccessToken: credentials.AccessToken,
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
		User:        credentials.User,
	})
}

// me handles GET /api/v1/auth/me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Cookie Helpers

func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	})
}

func (handler *Handler) refreshTokenFrom(request *http.Request) string {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (handler *Handler) clientInfo(request *http.Request) ClientInfo {
	return ClientInfo{
		UserAgent: request.UserAgent(),
		IP:        middleware.RealIP(request),
	}
}
