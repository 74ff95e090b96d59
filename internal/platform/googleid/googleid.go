// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

/*
Package googleid verifies Google Sign-In credentials (ID tokens).

It implements the server half of the "Sign in with Google" flow: the SPA
obtains a signed ID token from Google and posts it to the session endpoint,
which hands it to this package. Verification happens entirely locally against
Google's published signing keys; no Google API call carries user data.

Architecture:

  - Verifier: fetches Google's JWKS document, checks signature/issuer/
    audience/expiry of the credential, and extracts a fixed [Identity].
  - KeyCache: optional cache for the JWKS document (Redis in production),
    since Google rotates keys on the order of days, not seconds.

Downstream code never sees Google's claim names; the [Identity] struct is the
only shape that leaves this package.
*/
package googleid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rmcarvalho/tasko/internal/platform/constants"
)

// ErrInvalidCredential is the single failure result of credential verification.
//
// Signature, issuer, audience, expiry, and key-fetch failures all collapse
// into this value so the login endpoint cannot leak which check failed.
var ErrInvalidCredential = errors.New("googleid: invalid credential")

// Identity is the fixed internal shape extracted from a verified credential.
//
// Provider-specific claim names stop here; the rest of the application only
// ever sees these three fields.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// KeyCache stores the raw JWKS document between verifications.
//
// Implementations must treat every failure as a cache miss; the Verifier
// always falls back to a direct fetch.
type KeyCache interface {
	// Get returns the cached JWKS document, or ok=false on a miss.
	Get(ctx context.Context) (document string, ok bool)

	// Set stores the JWKS document with the cache's configured TTL.
	Set(ctx context.Context, document string)
}

// googleClaims is the subset of Google ID token claims Tasko consumes.
type googleClaims struct {
	jwt.RegisteredClaims

	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verifier validates Google ID tokens for a single OAuth client ID.
type Verifier struct {
	clientID   string
	jwksURL    string
	httpClient *http.Client
	cache      KeyCache
	logger     *slog.Logger
}

// Option customizes a [Verifier].
type Option func(*Verifier)

// WithHTTPClient replaces the HTTP client used for JWKS fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) { v.httpClient = client }
}

// WithJWKSURL overrides the Google JWKS endpoint (used by tests).
func WithJWKSURL(url string) Option {
	return func(v *Verifier) { v.jwksURL = url }
}

// WithKeyCache attaches a JWKS document cache.
func WithKeyCache(cache KeyCache) Option {
	return func(v *Verifier) { v.cache = cache }
}

// NewVerifier constructs a [Verifier] for the given Google OAuth client ID.
//
// The client ID is the expected 'aud' claim of every incoming credential.
func NewVerifier(clientID string, logger *slog.Logger, opts ...Option) *Verifier {
	verifier := &Verifier{
		clientID:   clientID,
		jwksURL:    constants.GoogleJWKSURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(verifier)
	}

	return verifier
}

// Verify checks the credential against Google's current signing keys and
// returns the embedded identity.
//
// # Checks
//   - RS256 signature against a key from Google's JWKS (selected by 'kid').
//   - Issuer is one of Google's two interchangeable issuer forms.
//   - Audience equals the configured client ID.
//   - Expiry, with zero clock-skew leeway.
//
// # Returns
//   - [ErrInvalidCredential] on any failure, with no further detail.
//
// Identity fields may still be empty on success; completeness is the login
// endpoint's concern, not the verifier's.
func (verifier *Verifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	// ── 1. Key Set Acquisition ────────────────────────────────────────────

	keys, fromCache, err := verifier.keySet(ctx, false)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	// ── 2. Signature & Claim Verification ─────────────────────────────────

	identity, err := verifier.verifyAgainst(credential, keys)
	if err != nil && fromCache {
		// The cached document may predate a key rotation. Refetch once and
		// retry before giving up.
		keys, _, err = verifier.keySet(ctx, true)
		if err != nil {
			return nil, ErrInvalidCredential
		}
		identity, err = verifier.verifyAgainst(credential, keys)
	}

	if err != nil {
		return nil, ErrInvalidCredential
	}

	return identity, nil
}

// verifyAgainst validates the credential against a parsed key set.
func (verifier *Verifier) verifyAgainst(credential string, keys keySet) (*Identity, error) {
	token, err := jwt.ParseWithClaims(credential, &googleClaims{},
		func(token *jwt.Token) (interface{}, error) {
			keyID, _ := token.Header["kid"].(string)
			publicKey, found := keys[keyID]
			if !found {
				return nil, fmt.Errorf("googleid: unknown key id %q", keyID)
			}
			return publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(verifier.clientID),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}

	claims, ok := token.Claims.(*googleClaims)
	if !ok {
		return nil, ErrInvalidCredential
	}

	// Google emits both issuer forms interchangeably; jwt.WithIssuer accepts
	// only one value, so the check is done here.
	if claims.Issuer != constants.GoogleIssuer && claims.Issuer != constants.GoogleIssuerAlt {
		return nil, ErrInvalidCredential
	}

	return &Identity{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// keySet returns the parsed Google key set, preferring the cache unless
// forceRefresh is set. The second return reports whether the document came
// from the cache.
func (verifier *Verifier) keySet(ctx context.Context, forceRefresh bool) (keySet, bool, error) {
	if !forceRefresh && verifier.cache != nil {
		if document, ok := verifier.cache.Get(ctx); ok {
			if keys, err := parseKeySet(document); err == nil && len(keys) > 0 {
				return keys, true, nil
			}
			// A corrupt cached document falls through to a fresh fetch.
		}
	}

	document, err := verifier.fetchKeyDocument(ctx)
	if err != nil {
		verifier.logger.WarnContext(ctx, "google_jwks_fetch_failed", slog.Any("error", err))
		return nil, false, err
	}

	keys, err := parseKeySet(document)
	if err != nil {
		return nil, false, err
	}

	if verifier.cache != nil {
		verifier.cache.Set(ctx, document)
	}

	return keys, false, nil
}

// maxJWKSDocumentSize bounds the response body read from the key endpoint.
const maxJWKSDocumentSize = 1 << 20

// fetchKeyDocument downloads the raw JWKS document from Google.
func (verifier *Verifier) fetchKeyDocument(ctx context.Context) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, verifier.jwksURL, nil)
	if err != nil {
		return "", fmt.Errorf("googleid: build jwks request: %w", err)
	}

	response, err := verifier.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("googleid: fetch jwks: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("googleid: jwks endpoint returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxJWKSDocumentSize))
	if err != nil {
		return "", fmt.Errorf("googleid: read jwks body: %w", err)
	}

	return string(body), nil
}
