// feed.go provides a Redis-backed cache for rendered public feed payloads.
// RSS and sitemap responses are built from every published post, so they
// are cached briefly and invalidated whenever a post changes. Admin CRUD
// reads are never cached; every read hits the database directly.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix namespaces feed keys in Redis.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a rendered feed stays cached.
	DefaultFeedTTL = 5 * time.Minute
)

// Feed cache keys.
const (
	KeyRSS     = "rss"
	KeySitemap = "sitemap"
)

// FeedCache stores rendered feed payloads in Redis.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Redis client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached feed payload. Returns false on miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a rendered feed payload with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, payload []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// Invalidate removes all cached feeds. Called on every post mutation.
func (fc *FeedCache) Invalidate(ctx context.Context) {
	keys := []string{feedKeyPrefix + KeyRSS, feedKeyPrefix + KeySitemap}
	if err := fc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "error", err)
	}
	slog.Debug("feed cache invalidated")
}
