// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcarvalho/tasko/internal/platform/constants"
	"github.com/rmcarvalho/tasko/internal/platform/ctxutil"
	"github.com/rmcarvalho/tasko/internal/platform/middleware"
	"github.com/rmcarvalho/tasko/internal/platform/sec"
)

// fakeValidator accepts one token value and rejects everything else.
type fakeValidator struct {
	token  string
	claims *sec.Claims
}

func (validator *fakeValidator) Validate(tokenString string) (*sec.Claims, error) {
	if tokenString == validator.token {
		return validator.claims, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthenticatedChain(requireAuth bool) (http.Handler, *sec.Claims) {
	claims := &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Email:            "rui@tasko.app",
		Name:             "Rui",
	}
	validator := &fakeValidator{token: "valid-token", claims: claims}

	var handler http.Handler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	if requireAuth {
		handler = middleware.RequireAuth(handler)
	}
	handler = middleware.Authenticate(validator)(handler)

	return handler, claims
}

/*
TestAuthenticate covers the three cookie states: absent (anonymous), valid
(claims injected), and invalid (hard 401).
*/
func TestAuthenticate(t *testing.T) {
	t.Run("no_cookie_is_anonymous", func(t *testing.T) {
		handler, _ := newAuthenticatedChain(false)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("valid_cookie_injects_claims", func(t *testing.T) {
		claims := &sec.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		}
		validator := &fakeValidator{token: "valid-token", claims: claims}

		var seen *sec.Claims
		handler := middleware.Authenticate(validator)(http.HandlerFunc(
			func(writer http.ResponseWriter, request *http.Request) {
				seen = ctxutil.GetAuthUser(request.Context())
			}))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "valid-token"})
		handler.ServeHTTP(httptest.NewRecorder(), request)

		require.NotNil(t, seen)
		assert.Equal(t, "user-1", seen.UserID())
	})

	t.Run("invalid_cookie_is_rejected", func(t *testing.T) {
		handler, _ := newAuthenticatedChain(false)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "stale-token"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

/*
TestRequireAuth verifies that the gate blocks anonymous requests and passes
authenticated ones.
*/
func TestRequireAuth(t *testing.T) {
	t.Run("anonymous_blocked", func(t *testing.T) {
		handler, _ := newAuthenticatedChain(true)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_passes", func(t *testing.T) {
		handler, _ := newAuthenticatedChain(true)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "valid-token"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
