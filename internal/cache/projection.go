// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// projection.go provides a Valkey-backed cache for composed page
// projections. A page's JSON body is stored under every identifier it is
// reachable by (id and, when live, slug) so requests skip composition
// while the entry is fresh. Writes that could change any projection clear
// the whole keyspace; widgets are shared across pages, so targeted
// invalidation is not worth the bookkeeping.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// projectionKeyPrefix is the Valkey key prefix for cached projections.
	projectionKeyPrefix = "projection:"

	// DefaultProjectionTTL is how long a composed projection stays cached.
	DefaultProjectionTTL = 5 * time.Minute
)

// ProjectionCache manages composed-page JSON caching in Valkey. A nil
// *ProjectionCache is a no-op, so the server runs without Valkey.
type ProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProjectionCache creates a projection cache backed by the given
// Valkey client.
func NewProjectionCache(client *redis.Client, ttl time.Duration) *ProjectionCache {
	if ttl == 0 {
		ttl = DefaultProjectionTTL
	}
	return &ProjectionCache{client: client, ttl: ttl}
}

// Get retrieves the cached JSON body for a page key. Returns false on miss.
func (pc *ProjectionCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, projectionKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("projection cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("projection cache hit", "key", key)
	return val, true
}

// Set stores a composed JSON body under the given keys with the
// configured TTL.
func (pc *ProjectionCache) Set(ctx context.Context, body []byte, keys ...string) {
	if pc == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := pc.client.Set(ctx, projectionKeyPrefix+key, body, pc.ttl).Err(); err != nil {
			slog.Warn("projection cache set error", "key", key, "error", err)
		}
	}
}

// Invalidate removes the entries for the given keys.
func (pc *ProjectionCache) Invalidate(ctx context.Context, keys ...string) {
	if pc == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := pc.client.Del(ctx, projectionKeyPrefix+key).Err(); err != nil {
			slog.Warn("projection cache invalidate error", "key", key, "error", err)
		}
	}
}

// InvalidateAll removes every cached projection by scanning for the
// prefix. Used on widget and catalog writes, since any page could embed
// the changed data.
func (pc *ProjectionCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, projectionKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("projection cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("projection cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("projection cache fully cleared", "deleted", deleted)
	}
}
