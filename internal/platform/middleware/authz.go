// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package middleware

import (
	"net/http"

	"github.com/rmcarvalho/tasko/internal/platform/apperr"
	"github.com/rmcarvalho/tasko/internal/platform/constants"
	"github.com/rmcarvalho/tasko/internal/platform/ctxutil"
	"github.com/rmcarvalho/tasko/internal/platform/respond"
	"github.com/rmcarvalho/tasko/internal/platform/sec"
)

// TokenValidator defines the interface needed to validate session tokens in middleware.
//
// # Why an interface?
//
// Defining TokenValidator here decouples the middleware from the [sec.TokenService]
// implementation, allowing us to easily inject fakes during unit testing.
type TokenValidator interface {
	Validate(tokenString string) (*sec.Claims, error)
}

// Authenticate extracts and validates the access token from its cookie.
//
// # Flow
//  1. Read the 'access_token' cookie.
//  2. If absent, request proceeds as anonymous.
//  3. If present, validate the token via [TokenValidator].
//  4. Inject [*sec.Claims] into the request context for downstream use.
//
// An invalid or expired cookie is rejected outright with 401 rather than
// downgraded to anonymous, so a client with a stale token gets the signal
// it needs to run its refresh flow.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Anonymous Access ───────────────────────────────────────────
			cookie, err := request.Cookie(constants.AccessTokenCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Validation ───────────────────────────────────────────
			claims, err := validator.Validate(cookie.Value)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Claims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
