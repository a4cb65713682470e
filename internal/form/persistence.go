package form

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getmentor/engineer-form/internal/kvstore"
	"github.com/getmentor/engineer-form/internal/models"
	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/getmentor/engineer-form/pkg/logger"
	"github.com/getmentor/engineer-form/pkg/metrics"
	"go.uber.org/zap"
)

const (
	liveSnapshotKey   = "engineerFormData"
	lastSubmissionKey = "engineerFormLastSubmit"
)

// Persistence stores the live snapshot and the last accepted submission of
// each session in a key-value store.
type Persistence struct {
	store  kvstore.Store
	prefix string
}

// NewPersistence creates an adapter over store. prefix namespaces every key.
func NewPersistence(store kvstore.Store, prefix string) *Persistence {
	return &Persistence{store: store, prefix: prefix}
}

func (p *Persistence) key(slot, sessionID string) string {
	return fmt.Sprintf("%s%s:%s", p.prefix, slot, sessionID)
}

// Load returns the stored snapshot for sessionID, or the empty state when it
// is missing, unreadable or malformed. It never fails.
func (p *Persistence) Load(ctx context.Context, sessionID string) models.FormState {
	data, err := p.store.Get(ctx, p.key(liveSnapshotKey, sessionID))
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			metrics.PersistenceFailures.WithLabelValues("load").Inc()
			logger.Warn("Failed to load form snapshot, starting empty",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return models.EmptyFormState()
	}

	state, err := models.DecodeFormState(data)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues("decode").Inc()
		logger.Warn("Discarding malformed form snapshot",
			zap.String("session_id", sessionID), zap.Error(err))
		return models.EmptyFormState()
	}
	return state
}

// Save writes the live snapshot. The error is logged here; callers keep the
// in-memory state either way.
func (p *Persistence) Save(ctx context.Context, sessionID string, state models.FormState) error {
	data, err := models.EncodeFormState(state)
	if err == nil {
		err = p.store.Set(ctx, p.key(liveSnapshotKey, sessionID), data)
	}
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues("save").Inc()
		logger.Warn("Failed to save form snapshot",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return err
}

// Clear drops the live snapshot so the next Load starts empty. Errors are
// logged like Save's.
func (p *Persistence) Clear(ctx context.Context, sessionID string) error {
	err := p.store.Delete(ctx, p.key(liveSnapshotKey, sessionID))
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues("clear").Inc()
		logger.Warn("Failed to clear form snapshot",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return err
}

// ArchiveSubmission writes the last-submission slot
func (p *Persistence) ArchiveSubmission(ctx context.Context, sessionID string, record models.SubmissionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.InternalError(fmt.Sprintf("encode submission: %v", err))
	}
	if err := p.store.Set(ctx, p.key(lastSubmissionKey, sessionID), data); err != nil {
		logger.LogError(ctx, err, "Failed to archive submission", zap.String("session_id", sessionID))
		return err
	}
	return nil
}

// LastSubmission reads the last accepted submission of sessionID
func (p *Persistence) LastSubmission(ctx context.Context, sessionID string) (*models.SubmissionRecord, error) {
	data, err := p.store.Get(ctx, p.key(lastSubmissionKey, sessionID))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundError("submission")
		}
		return nil, err
	}
	var record models.SubmissionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.InternalError(fmt.Sprintf("decode submission: %v", err))
	}
	return &record, nil
}
