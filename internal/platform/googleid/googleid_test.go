// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package googleid_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcarvalho/tasko/internal/platform/googleid"
)

const testClientID = "tasko-client-id.apps.googleusercontent.com"

// signingAuthority plays the role of Google: it owns an RSA key pair, serves
// the public half as a JWKS document, and signs ID tokens with the private half.
type signingAuthority struct {
	keyID      string
	privateKey *rsa.PrivateKey
	server     *httptest.Server
	fetchCount int
}

func newSigningAuthority(t *testing.T, keyID string) *signingAuthority {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	authority := &signingAuthority{keyID: keyID, privateKey: privateKey}
	authority.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		authority.fetchCount++
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(authority.document()))
	}))
	t.Cleanup(authority.server.Close)

	return authority
}

// document renders the JWKS for the authority's current key.
func (authority *signingAuthority) document() string {
	public := authority.privateKey.Public().(*rsa.PublicKey)
	payload := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": authority.keyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(public.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(public.E)).Bytes()),
		}},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

type tokenOverrides struct {
	issuer   string
	audience string
	expiry   time.Time
	keyID    string
}

// sign mints an ID token the way Google would, with optional overrides.
func (authority *signingAuthority) sign(t *testing.T, overrides tokenOverrides) string {
	t.Helper()

	issuer := overrides.issuer
	if issuer == "" {
		issuer = "https://accounts.google.com"
	}
	audience := overrides.audience
	if audience == "" {
		audience = testClientID
	}
	expiry := overrides.expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	keyID := overrides.keyID
	if keyID == "" {
		keyID = authority.keyID
	}

	claims := jwt.MapClaims{
		"iss":     issuer,
		"aud":     audience,
		"sub":     "google-subject-1",
		"exp":     expiry.Unix(),
		"iat":     time.Now().Unix(),
		"email":   "rui@tasko.app",
		"name":    "Rui Carvalho",
		"picture": "https://lh3.example.com/photo.jpg",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = keyID

	signed, err := token.SignedString(authority.privateKey)
	require.NoError(t, err)
	return signed
}

func newVerifier(authority *signingAuthority, opts ...googleid.Option) *googleid.Verifier {
	logger := slog.New(slog.DiscardHandler)
	opts = append([]googleid.Option{googleid.WithJWKSURL(authority.server.URL)}, opts...)
	return googleid.NewVerifier(testClientID, logger, opts...)
}

// memoryKeyCache is a test double for the Redis-backed cache.
type memoryKeyCache struct {
	document string
	sets     int
}

func (cache *memoryKeyCache) Get(ctx context.Context) (string, bool) {
	return cache.document, cache.document != ""
}

func (cache *memoryKeyCache) Set(ctx context.Context, document string) {
	cache.document = document
	cache.sets++
}

/*
TestVerifier_ValidCredential verifies the happy path: a properly signed token
yields the embedded identity.
*/
func TestVerifier_ValidCredential(t *testing.T) {
	authority := newSigningAuthority(t, "key-1")
	verifier := newVerifier(authority)

	identity, err := verifier.Verify(context.Background(), authority.sign(t, tokenOverrides{}))
	require.NoError(t, err)

	assert.Equal(t, "rui@tasko.app", identity.Email)
	assert.Equal(t, "Rui Carvalho", identity.Name)
	assert.Equal(t, "https://lh3.example.com/photo.jpg", identity.Picture)
}

/*
TestVerifier_AlternateIssuer verifies that both of Google's issuer forms are
accepted.
*/
func TestVerifier_AlternateIssuer(t *testing.T) {
	authority := newSigningAuthority(t, "key-1")
	verifier := newVerifier(authority)

	credential := authority.sign(t, tokenOverrides{issuer: "accounts.google.com"})

	_, err := verifier.Verify(context.Background(), credential)
	assert.NoError(t, err)
}

/*
TestVerifier_Rejections checks that every individual failure collapses into
ErrInvalidCredential.
*/
func TestVerifier_Rejections(t *testing.T) {
	authority := newSigningAuthority(t, "key-1")
	verifier := newVerifier(authority)

	tests := []struct {
		name       string
		credential func(t *testing.T) string
	}{
		{"wrong_issuer", func(t *testing.T) string {
			return authority.sign(t, tokenOverrides{issuer: "https://evil.example.com"})
		}},
		{"wrong_audience", func(t *testing.T) string {
			return authority.sign(t, tokenOverrides{audience: "someone-else"})
		}},
		{"expired", func(t *testing.T) string {
			return authority.sign(t, tokenOverrides{expiry: time.Now().Add(-time.Minute)})
		}},
		{"unknown_key_id", func(t *testing.T) string {
			return authority.sign(t, tokenOverrides{keyID: "key-that-never-existed"})
		}},
		{"garbage", func(t *testing.T) string {
			return "not-a-jwt"
		}},
		{"wrong_private_key", func(t *testing.T) string {
			imposter := newSigningAuthority(t, "key-1")
			return imposter.sign(t, tokenOverrides{})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := verifier.Verify(context.Background(), tt.credential(t))
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, googleid.ErrInvalidCredential)
		})
	}
}

/*
TestVerifier_CachePopulation verifies that the first fetch populates the key
cache and later verifications never hit the network.
*/
func TestVerifier_CachePopulation(t *testing.T) {
	authority := newSigningAuthority(t, "key-1")
	cache := &memoryKeyCache{}
	verifier := newVerifier(authority, googleid.WithKeyCache(cache))

	_, err := verifier.Verify(context.Background(), authority.sign(t, tokenOverrides{}))
	require.NoError(t, err)
	assert.Equal(t, 1, authority.fetchCount)
	assert.Equal(t, 1, cache.sets)

	_, err = verifier.Verify(context.Background(), authority.sign(t, tokenOverrides{}))
	require.NoError(t, err)
	assert.Equal(t, 1, authority.fetchCount, "second verification must be served from cache")
}

/*
TestVerifier_StaleCacheRefetch simulates a key rotation: the cache holds the
old key, so verification refetches once and succeeds with the new one.
*/
func TestVerifier_StaleCacheRefetch(t *testing.T) {
	oldAuthority := newSigningAuthority(t, "old-key")
	newAuthority := newSigningAuthority(t, "new-key")

	cache := &memoryKeyCache{document: oldAuthority.document()}
	verifier := newVerifier(newAuthority, googleid.WithKeyCache(cache))

	identity, err := verifier.Verify(context.Background(), newAuthority.sign(t, tokenOverrides{}))

	require.NoError(t, err)
	assert.Equal(t, "rui@tasko.app", identity.Email)
	assert.Equal(t, 1, newAuthority.fetchCount, "stale cache must trigger exactly one refetch")
	assert.Contains(t, cache.document, "new-key", "refetched document must replace the stale one")
}

/*
TestVerifier_EndpointDown verifies that an unreachable key endpoint fails
closed with no cache to fall back on.
*/
func TestVerifier_EndpointDown(t *testing.T) {
	authority := newSigningAuthority(t, "key-1")
	credential := authority.sign(t, tokenOverrides{})
	authority.server.Close()

	verifier := newVerifier(authority)

	_, err := verifier.Verify(context.Background(), credential)
	assert.ErrorIs(t, err, googleid.ErrInvalidCredential)
}
