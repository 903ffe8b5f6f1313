package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func snap(ids ...string) domain.FeedSnapshot {
	rows := make([]domain.FeedRow, len(ids))
	for i, id := range ids {
		rows[i] = domain.FeedRow{Listing: domain.Listing{ID: id}}
	}
	return domain.FeedSnapshot{Rows: rows, Total: int64(len(ids))}
}

func TestSnapshotCache_HitWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock(5*time.Minute, clock.Now)
	ctx := context.Background()

	c.Put(ctx, "feed:sale::20", snap("a", "b"))

	clock.Advance(4*time.Minute + 59*time.Second)
	got, ok := c.Get(ctx, "feed:sale::20")
	assert.True(t, ok)
	assert.Equal(t, snap("a", "b"), got)
}

func TestSnapshotCache_MissAtExactTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock(5*time.Minute, clock.Now)
	ctx := context.Background()

	c.Put(ctx, "k", snap("a"))

	clock.Advance(5 * time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "age == TTL must behave as a miss")
}

func TestSnapshotCache_MissForUnknownKey(t *testing.T) {
	c := New(5 * time.Minute)
	_, ok := c.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestSnapshotCache_PutOverwrites(t *testing.T) {
	c := New(5 * time.Minute)
	ctx := context.Background()

	c.Put(ctx, "k", snap("old"))
	c.Put(ctx, "k", snap("new"))

	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, snap("new"), got)
}

func TestSnapshotCache_PreservesTotal(t *testing.T) {
	c := New(5 * time.Minute)
	ctx := context.Background()

	c.Put(ctx, "k", domain.FeedSnapshot{
		Rows:  snap("a", "b").Rows,
		Total: 42,
	})

	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, int64(42), got.Total)
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	c := New(5 * time.Minute)
	ctx := context.Background()

	c.Put(ctx, "k", snap("a"))
	c.Invalidate(ctx, "k")

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestSnapshotCache_SweepOnWrite(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock(5*time.Minute, clock.Now)
	ctx := context.Background()

	c.Put(ctx, "stale", snap("a"))
	clock.Advance(6 * time.Minute)

	// The write sweeps the aged entry out of the map entirely.
	c.Put(ctx, "fresh", snap("b"))

	c.mu.Lock()
	_, stillThere := c.entries["stale"]
	c.mu.Unlock()
	assert.False(t, stillThere)

	got, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
	assert.Equal(t, snap("b"), got)
}

func TestSnapshotCache_Purge(t *testing.T) {
	c := New(5 * time.Minute)
	ctx := context.Background()

	c.Put(ctx, "k1", snap("a"))
	c.Put(ctx, "k2", snap("b"))
	c.Purge(ctx)

	_, ok1 := c.Get(ctx, "k1")
	_, ok2 := c.Get(ctx, "k2")
	assert.False(t, ok1)
	assert.False(t, ok2)
}
