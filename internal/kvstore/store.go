// Package kvstore provides the key-value backends that hold form snapshots.
package kvstore

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/getmentor/engineer-form/pkg/logger"
	"github.com/getmentor/engineer-form/pkg/metrics"
	"go.uber.org/zap"
)

// Store is a flat key-value store. Get returns an error matching
// apperrors.ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Name() string
}

func notFound(key string) error {
	return apperrors.NotFoundError(fmt.Sprintf("key %q", key))
}

// observe records metrics and a log line for one backend call
func observe(ctx context.Context, backend, operation, key string, start time.Time, err error) {
	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		status = "error"
	}

	metrics.StorageRequestDuration.WithLabelValues(backend, operation, status).Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(backend, operation, status).Inc()

	fields := []zap.Field{zap.String("key", key)}
	if status == "error" {
		fields = append(fields, zap.Error(err))
	}
	logger.LogStorageCall(ctx, backend, operation, status, duration, fields...)
}
