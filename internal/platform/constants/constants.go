// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Token lifetimes and cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tasko-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AccessTokenCookieName is the cookie that carries the short-lived access token.
	AccessTokenCookieName = "access_token"

	// AccessTokenCookiePath makes the access token available to the whole API.
	AccessTokenCookiePath = "/"

	// RefreshTokenCookieName is the cookie that carries the long-lived refresh token.
	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath restricts the refresh token to the refresh endpoint only.
	RefreshTokenCookiePath = "/api/session/refresh"

	// AccessTokenLifetime bounds the exposure window of a leaked access token.
	AccessTokenLifetime = 15 * time.Minute

	// RefreshTokenLifetime is how long a login survives without re-authentication.
	RefreshTokenLifetime = 7 * 24 * time.Hour
)

// # Google Identity Provider

const (
	// GoogleJWKSURL is the endpoint publishing Google's current signing keys.
	GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	// GoogleIssuer is the primary 'iss' claim value of Google ID tokens.
	GoogleIssuer = "https://accounts.google.com"

	// GoogleIssuerAlt is the legacy issuer form Google still emits interchangeably.
	GoogleIssuerAlt = "accounts.google.com"

	// GoogleJWKSCacheTTL is how long a fetched key set document is reused.
	GoogleJWKSCacheTTL = 1 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Redis Keys (Cache Taxonomy)

const (
	// RedisKeyGoogleJWKS stores the most recently fetched Google key set document.
	RedisKeyGoogleJWKS = "idp:google:jwks"
)
