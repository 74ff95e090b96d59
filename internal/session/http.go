// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package session

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rmcarvalho/tasko/internal/platform/apperr"
	"github.com/rmcarvalho/tasko/internal/platform/constants"
	requestutil "github.com/rmcarvalho/tasko/internal/platform/request"
	"github.com/rmcarvalho/tasko/internal/platform/respond"
	"github.com/rmcarvalho/tasko/internal/platform/validate"
)

// Handler implements the session HTTP endpoints.
//
// # Cookie Transport
//
// Tokens never appear in response bodies. The access token travels on a
// cookie scoped to the whole API; the refresh token's cookie is scoped to
// the refresh endpoint path only, so the browser sends the long-lived
// credential to exactly one route.
type Handler struct {
	sessionService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{sessionService: service}
}

// Routes returns a [chi.Router] configured with session routes.
//
// # Endpoints
//   - POST /auth    : Exchanges a Google credential for session cookies.
//   - POST /refresh : Issues a fresh access token from the refresh cookie.
//   - POST /logout  : Clears both session cookies.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/auth", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	return router
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Credential string `json:"credential"`
}

// loginResponse is the body returned on a successful login.
type loginResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// login handles POST /api/session/auth requests.
//
// # Returns
//   - Writes HTTP 200 OK with the profile and both session cookies set.
//   - Writes HTTP 400 Bad Request if the credential is missing or its
//     payload is incomplete.
//   - Writes HTTP 401 Unauthorized if verification fails.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Credential == "" {
		respond.Error(writer, request, validate.RequiredError("credential", "is required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.sessionService.Login(request.Context(), input.Credential)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Cookie Transport ───────────────────────────────────────────────

	setSessionCookie(writer, constants.AccessTokenCookieName, session.AccessToken,
		constants.AccessTokenCookiePath, constants.AccessTokenLifetime)
	setSessionCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken,
		constants.RefreshTokenCookiePath, constants.RefreshTokenLifetime)

	respond.OK(writer, loginResponse{
		ID:             session.User.ID,
		Username:       session.User.Username,
		ProfilePicture: session.ProfilePicture,
	})
}

// refresh handles POST /api/session/refresh requests.
//
// # Returns
//   - Writes HTTP 200 OK with an acknowledgement and a fresh access cookie.
//   - Writes HTTP 401 Unauthorized if the refresh cookie is absent or invalid.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Cookie Extraction ──────────────────────────────────────────────

	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Invalid or expired refresh token"))
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	accessToken, err := handler.sessionService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Cookie Transport ───────────────────────────────────────────────

	setSessionCookie(writer, constants.AccessTokenCookieName, accessToken,
		constants.AccessTokenCookiePath, constants.AccessTokenLifetime)

	respond.OK(writer, map[string]string{constants.FieldMessage: "Token refreshed"})
}

// logout handles POST /api/session/logout requests.
//
// Clearing an absent cookie is not an error; logout is idempotent and
// always answers 200.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	clearSessionCookie(writer, constants.AccessTokenCookieName, constants.AccessTokenCookiePath)
	clearSessionCookie(writer, constants.RefreshTokenCookieName, constants.RefreshTokenCookiePath)

	respond.OK(writer, map[string]string{constants.FieldMessage: "Logged out"})
}

// setSessionCookie writes an HttpOnly, SameSite=Lax session cookie.
//
// Secure is off in the reference configuration; deployments fronting the API
// with TLS should harden this.
func setSessionCookie(writer http.ResponseWriter, name, value, path string, lifetime time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires a session cookie immediately.
func clearSessionCookie(writer http.ResponseWriter, name, path string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
}
