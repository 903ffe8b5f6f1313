// Package cache provides the redis-backed variant of the snapshot
// cache for deployments that share feed snapshots between instances.
// Expiry is delegated to the server-side TTL, which preserves the same
// observable contract: an aged entry is a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

const keyPrefix = "feed:"

type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewFeedCache(client *redis.Client, ttl time.Duration, log logger.Logger) *FeedCache {
	return &FeedCache{client: client, ttl: ttl, logger: log}
}

// Get treats any redis failure as a miss; the caller falls through to a
// live fetch.
func (c *FeedCache) Get(ctx context.Context, key string) (domain.FeedSnapshot, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.FeedSnapshot{}, false
	}
	if err != nil {
		c.logger.Warnf("FeedCache.Get: redis read failed for %s: %v", key, err)
		return domain.FeedSnapshot{}, false
	}
	var snap domain.FeedSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warnf("FeedCache.Get: corrupt snapshot for %s: %v", key, err)
		return domain.FeedSnapshot{}, false
	}
	return snap, true
}

func (c *FeedCache) Put(ctx context.Context, key string, snap domain.FeedSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Errorf("FeedCache.Put: marshal failed for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warnf("FeedCache.Put: redis write failed for %s: %v", key, err)
	}
}

func (c *FeedCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnf("FeedCache.Invalidate: redis delete failed for %s: %v", key, err)
	}
}

// Purge drops every feed snapshot. Used by the listing-event subscriber,
// which has no way to know which keys a changed listing affects.
func (c *FeedCache) Purge(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warnf("FeedCache.Purge: redis delete failed for %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warnf("FeedCache.Purge: scan failed: %v", err)
	}
}
