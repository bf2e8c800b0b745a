// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// popular.go provides a Valkey-backed cache for the popular-posts feed.
// The feed is sorted by view count, and view counts move on every slug
// read, so the query is both hot and cheap to serve stale for a few
// minutes. Cached entries are keyed by requested limit and invalidated
// whenever any post mutates.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// popularKeyPrefix is the Valkey key prefix for cached popular feeds.
	popularKeyPrefix = "popular:"

	// DefaultPopularTTL is how long a cached popular feed stays valid.
	DefaultPopularTTL = 5 * time.Minute
)

// PopularCache stores serialized popular-posts responses in Valkey.
type PopularCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPopularCache creates a popular-posts cache backed by the given Valkey client.
func NewPopularCache(client *redis.Client, ttl time.Duration) *PopularCache {
	if ttl == 0 {
		ttl = DefaultPopularTTL
	}
	return &PopularCache{client: client, ttl: ttl}
}

// Key returns the cache key for a popular feed of the given size.
func Key(limit int) string {
	return fmt.Sprintf("limit=%d", limit)
}

// Get retrieves a cached response body. Returns false on miss.
func (pc *PopularCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, popularKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("popular cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("popular cache hit", "key", key)
	return val, true
}

// Set stores a serialized response body with the configured TTL.
func (pc *PopularCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, popularKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("popular cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached popular feed by scanning for the
// prefix. Called after any post mutation, since any entry could be stale.
func (pc *PopularCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, popularKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("popular cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("popular cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("popular cache cleared", "deleted", deleted)
	}
}
