package kvstore

import (
	"context"
	"time"

	"github.com/getmentor/engineer-form/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const snapshotCacheName = "snapshots"

// CachedStore is a read-through, write-through cache in front of a remote
// backend. Writes go to the backend first; the cache only holds values the
// backend accepted.
type CachedStore struct {
	next  Store
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCachedStore wraps next with a cache holding entries for ttl
func NewCachedStore(next Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *CachedStore) Name() string { return c.next.Name() }

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if data, found := c.cache.Get(key); found {
		metrics.CacheHits.WithLabelValues(snapshotCacheName).Inc()
		return append([]byte(nil), data.([]byte)...), nil
	}
	metrics.CacheMisses.WithLabelValues(snapshotCacheName).Inc()

	value, err := c.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.put(key, value)
	return value, nil
}

func (c *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.put(key, value)
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return c.next.Delete(ctx, key)
}

func (c *CachedStore) put(key string, value []byte) {
	c.cache.Set(key, append([]byte(nil), value...), c.ttl)
	metrics.CacheSize.WithLabelValues(snapshotCacheName).Set(float64(c.cache.ItemCount()))
}
