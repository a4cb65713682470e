package main

import (
	"context"
	"fmt"
	"time"

	"github.com/getmentor/engineer-form/config"
	"github.com/getmentor/engineer-form/internal/kvstore"
	"github.com/getmentor/engineer-form/pkg/db"
	"github.com/getmentor/engineer-form/pkg/logger"
	"github.com/getmentor/engineer-form/pkg/objectstorage"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// storage is the configured key-value backend with its readiness probe and
// cleanup hook. keyPrefix is what the persistence layer still has to prepend;
// the object store applies STORAGE_KEY_PREFIX itself.
type storage struct {
	store     kvstore.Store
	keyPrefix string
	ready     func() bool
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	var st *storage

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database connection pool: %w", err)
		}
		st = &storage{
			store:     kvstore.NewPostgresStore(pool),
			keyPrefix: cfg.Storage.KeyPrefix,
			ready: func() bool {
				pingCtx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
				defer cancel()
				return pool.Ping(pingCtx) == nil
			},
			close: func() { db.Close(pool) },
		}
	case config.StorageS3:
		client, err := objectstorage.NewClient(cfg.ObjectStorage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage client: %w", err)
		}
		st = &storage{
			store: kvstore.NewObjectStore(client, cfg.ObjectStorage.BucketName, cfg.Storage.KeyPrefix),
			close: func() {},
		}
	default:
		st = &storage{store: kvstore.NewMemoryStore(), keyPrefix: cfg.Storage.KeyPrefix, close: func() {}}
	}

	if ttl := cfg.Storage.ReadCacheTTLSeconds; ttl > 0 && cfg.Storage.Backend != config.StorageMemory {
		st.store = kvstore.NewCachedStore(st.store, time.Duration(ttl)*time.Second)
		logger.Info("Snapshot read cache enabled", zap.Int("ttl_seconds", ttl))
	}

	logger.Info("Form storage initialized", zap.String("backend", st.store.Name()))
	return st, nil
}
