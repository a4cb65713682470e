package kvstore

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps values in process memory. Entries never expire; the
// whole store is lost on restart.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, found := m.cache.Get(key)
	if !found {
		err := notFound(key)
		observe(ctx, m.Name(), "get", key, start, err)
		return nil, err
	}
	value := append([]byte(nil), data.([]byte)...)
	observe(ctx, m.Name(), "get", key, start, nil)
	return value, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	m.cache.Set(key, append([]byte(nil), value...), gocache.NoExpiration)
	observe(ctx, m.Name(), "set", key, start, nil)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	m.cache.Delete(key)
	observe(ctx, m.Name(), "delete", key, start, nil)
	return nil
}

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	return m.cache.ItemCount()
}
