// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT signing and verification)
// from the domain logic. It acts as an Infrastructure service injected into
// the Application layer via small interfaces ([session.TokenProvider],
// [middleware.TokenValidator]).
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single failure result of token validation.
//
// # Why one error?
//
// Malformed, badly signed, wrong-issuer, wrong-audience, and expired tokens
// all collapse into this value. Callers (and therefore clients) never learn
// which check failed, so the API cannot be used as a verification oracle.
var ErrInvalidToken = errors.New("sec: invalid token")

// Claims represents the payload embedded inside a first-party token.
//
// # Why custom claims?
//
// By embedding the account's email and display name directly inside the JWT,
// [middleware.Authenticate] can reconstruct the active user context WITHOUT
// querying the database on every single API request. The Subject registered
// claim carries the account ID.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserID returns the account ID bound to the token.
func (c *Claims) UserID() string { return c.Subject }

// TokenService mints and verifies first-party session tokens using HS256.
//
// The same shared symmetric secret, issuer, and audience are used for both
// access and refresh tokens; the two differ only in lifetime and in the
// cookie path they travel on.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenService creates a new TokenService.
//
// # Returns
//   - An error if the signing secret is empty. This is a startup precondition:
//     the process must not come up able to mint unverifiable tokens.
func NewTokenService(secret, issuer, audience string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret is not configured")
	}

	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

// Issue creates a signed token bound to the given account identity.
//
// # Parameters
//   - userID: The account ID, stored as the 'sub' claim.
//   - email: The account email.
//   - name: The account display name.
//   - timeToLive: The duration before the token expires.
func (service *TokenService) Issue(userID, email, name string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email: email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", errors.Join(errors.New("sec: failed to sign token"), err)
	}

	return signedToken, nil
}

// Validate checks the signature, issuer, audience, and expiry of a token.
//
// Expiry is checked with zero clock-skew leeway.
//
// # Returns
//   - The bound [*Claims] on success.
//   - [ErrInvalidToken] on any failure, with no further detail.
func (service *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(service.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
