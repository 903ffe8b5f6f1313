// Package cache holds the in-memory TTL snapshot cache for first feed
// pages. Correctness rests on the age check in Get alone; sweeping only
// bounds memory.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	snap      domain.FeedSnapshot
	writtenAt time.Time
}

type SnapshotCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func New(ttl time.Duration) *SnapshotCache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock injects the clock; tests drive expiry without sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns the snapshot only while its age is strictly below the TTL.
// An aged entry behaves as a miss but is not deleted here; removal is
// left to the on-write sweep.
func (c *SnapshotCache) Get(ctx context.Context, key string) (domain.FeedSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.FeedSnapshot{}, false
	}
	if c.now().Sub(e.writtenAt) >= c.ttl {
		return domain.FeedSnapshot{}, false
	}
	return e.snap, true
}

// Put overwrites any existing entry for the key unconditionally and
// opportunistically sweeps aged entries.
func (c *SnapshotCache) Put(ctx context.Context, key string, snap domain.FeedSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.writtenAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{snap: snap, writtenAt: now}
}

func (c *SnapshotCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *SnapshotCache) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
