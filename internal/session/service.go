// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

// Package session implements the authentication core: exchanging a Google
// credential for first-party session tokens, refreshing the short-lived
// token, and logging out.
//
// # Architecture
//
// The service composes three collaborators behind small interfaces — the
// Google credential verifier, the account repository, and the token
// provider — and holds no state of its own. All session state lives in the
// tokens; the server keeps nothing between calls.
//
// # Review Process
//
// This service is critical for security. Any changes to verification,
// account resolution, or token issuance must be reviewed carefully.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rmcarvalho/tasko/internal/platform/apperr"
	"github.com/rmcarvalho/tasko/internal/platform/constants"
	"github.com/rmcarvalho/tasko/internal/platform/googleid"
	"github.com/rmcarvalho/tasko/internal/platform/sec"
	"github.com/rmcarvalho/tasko/internal/user"
	"github.com/rmcarvalho/tasko/pkg/uuidv7"
)

// IdentityVerifier defines the contract for validating an external credential.
type IdentityVerifier interface {
	// Verify checks the credential against the provider and extracts the
	// embedded identity. Returns [googleid.ErrInvalidCredential] on any
	// verification failure.
	Verify(ctx context.Context, credential string) (*googleid.Identity, error)
}

// TokenProvider defines the contract for minting and validating session tokens.
type TokenProvider interface {
	// Issue creates a signed token bound to the given account identity.
	Issue(userID, email, name string, timeToLive time.Duration) (string, error)

	// Validate checks a token and returns its claims, or [sec.ErrInvalidToken].
	Validate(tokenString string) (*sec.Claims, error)
}

// Service implements the login, refresh, and logout use cases.
type Service struct {
	users    user.Repository
	verifier IdentityVerifier
	tokens   TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users user.Repository, verifier IdentityVerifier, tokens TokenProvider) *Service {
	return &Service{
		users:    users,
		verifier: verifier,
		tokens:   tokens,
	}
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	User           *user.User
	ProfilePicture string
	AccessToken    string
	RefreshToken   string
}

// Login exchanges a Google credential for a pair of first-party tokens.
//
// # Flow
//  1. Verify the credential against Google's signing keys.
//  2. Resolve the embedded email to a local account, creating one on first sight.
//  3. Issue the access token (15 min) and refresh token (7 days).
//
// # Returns
//   - [apperr.Unauthorized] if verification fails.
//   - [apperr.ValidationError] if the verified payload is missing email or name.
func (service *Service) Login(ctx context.Context, credential string) (*LoginSession, error) {
	// ── 1. Credential Verification ────────────────────────────────────────

	// Generic unauthorized error regardless of which check failed, so the
	// endpoint can never be used as a verification oracle.
	identity, err := service.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid credential")
	}

	if identity.Email == "" || identity.Name == "" {
		return nil, apperr.ValidationError("Credential payload is incomplete")
	}

	// ── 2. Account Resolution ─────────────────────────────────────────────

	account, err := service.resolveAccount(ctx, identity)
	if err != nil {
		return nil, err
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	accessToken, err := service.tokens.Issue(account.ID, account.Email, account.Username, constants.AccessTokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("session_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.Issue(account.ID, account.Email, account.Username, constants.RefreshTokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("session_service_refresh_token_failed: %w", err)
	}

	return &LoginSession{
		User:           account,
		ProfilePicture: identity.Picture,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
	}, nil
}

// Refresh validates a refresh token and issues a new access token.
//
// The refresh token itself is not rotated; it stays valid until its own
// expiry forces a full re-login.
//
// # Returns
//   - [apperr.Unauthorized] if the token is invalid or the bound account no
//     longer exists (deleted while the token was still live).
func (service *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	// ── 1. Token Validation ───────────────────────────────────────────────

	claims, err := service.tokens.Validate(refreshToken)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 2. Account Lookup ─────────────────────────────────────────────────

	account, err := service.users.FindByID(ctx, claims.UserID())
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 3. Access Token Issuance ──────────────────────────────────────────

	accessToken, err := service.tokens.Issue(account.ID, account.Email, account.Username, constants.AccessTokenLifetime)
	if err != nil {
		return "", fmt.Errorf("session_service_refresh_issue_failed: %w", err)
	}

	return accessToken, nil
}

// resolveAccount maps a verified identity to a local account, creating one on
// first sight.
//
// # Race Policy
//
// Two concurrent first logins with the same never-seen email can both miss
// the lookup. The users table's unique email constraint makes exactly one
// insert win; the loser sees [apperr.Conflict] and re-reads the winner's row.
func (service *Service) resolveAccount(ctx context.Context, identity *googleid.Identity) (*user.User, error) {
	account, err := service.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		return account, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("session_service_lookup_failed: %w", err)
	}

	account = &user.User{
		ID:       uuidv7.New(),
		Email:    identity.Email,
		Username: identity.Name,
	}

	err = service.users.Create(ctx, account)
	if err == nil {
		return account, nil
	}

	if isConflict(err) {
		// Lost the first-login race; the winner's row is authoritative.
		return service.users.FindByEmail(ctx, identity.Email)
	}

	return nil, fmt.Errorf("session_service_create_failed: %w", err)
}

// isNotFound reports whether err is an [apperr.AppError] with status 404.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == http.StatusNotFound
}

// isConflict reports whether err is an [apperr.AppError] with status 409.
func isConflict(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == http.StatusConflict
}
