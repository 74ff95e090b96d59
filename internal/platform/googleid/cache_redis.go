// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package googleid

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rmcarvalho/tasko/internal/platform/constants"
)

// RedisKeyCache stores the Google JWKS document in Redis with a fixed TTL.
//
// # Failure Policy
//
// Every Redis error is treated as a cache miss or silently dropped. The
// verifier must keep working through a Redis outage; logins just pay the
// extra round trip to Google's key endpoint.
type RedisKeyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisKeyCache creates a JWKS document cache on top of an existing client.
func NewRedisKeyCache(client *redis.Client, logger *slog.Logger) *RedisKeyCache {
	return &RedisKeyCache{
		client: client,
		ttl:    constants.GoogleJWKSCacheTTL,
		logger: logger,
	}
}

// Get implements [KeyCache].
func (cache *RedisKeyCache) Get(ctx context.Context) (string, bool) {
	document, err := cache.client.Get(ctx, constants.RedisKeyGoogleJWKS).Result()
	if err != nil {
		if err != redis.Nil {
			cache.logger.WarnContext(ctx, "jwks_cache_read_failed", slog.Any("error", err))
		}
		return "", false
	}

	return document, true
}

// Set implements [KeyCache].
func (cache *RedisKeyCache) Set(ctx context.Context, document string) {
	if err := cache.client.Set(ctx, constants.RedisKeyGoogleJWKS, document, cache.ttl).Err(); err != nil {
		cache.logger.WarnContext(ctx, "jwks_cache_write_failed", slog.Any("error", err))
	}
}
