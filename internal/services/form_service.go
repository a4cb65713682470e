package services

import (
	"context"
	"errors"

	"github.com/getmentor/engineer-form/internal/cache"
	"github.com/getmentor/engineer-form/internal/form"
	"github.com/getmentor/engineer-form/internal/models"
	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/getmentor/engineer-form/pkg/logger"
	"github.com/getmentor/engineer-form/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FormService owns the live form sessions and runs every form operation
// against them. Sessions are opened on first use and rehydrated from
// persistence, so any well-formed session id is valid.
type FormService struct {
	sessions *cache.SessionCache
	persist  *form.Persistence
	opts     form.Options
	newID    func() string
}

// NewFormService creates a form service. opts configures every session it
// opens; opts.Persistence is required.
func NewFormService(sessions *cache.SessionCache, opts form.Options) *FormService {
	if opts.Table == nil {
		opts.Table = form.DefaultVersionTable()
	}
	return &FormService{
		sessions: sessions,
		persist:  opts.Persistence,
		opts:     opts,
		newID:    uuid.NewString,
	}
}

// Frameworks returns the framework version table
func (s *FormService) Frameworks(_ context.Context) *models.FrameworksResponse {
	return &models.FrameworksResponse{Frameworks: s.opts.Table.Rows()}
}

// CreateForm opens a session under a fresh id
func (s *FormService) CreateForm(ctx context.Context) (*models.FormView, error) {
	ctx, span := tracing.StartSpan(ctx, "form.create")
	defer span.End()

	id := s.newID()
	span.SetAttributes(attribute.String("form.session_id", id))
	session := s.session(ctx, id)

	logger.Info("Form session created", zap.String("session_id", id))
	return viewOf(session), nil
}

// GetForm returns the current view of sessionID, opening it if needed
func (s *FormService) GetForm(ctx context.Context, sessionID string) (view *models.FormView, err error) {
	err = s.run(ctx, "form.get", sessionID, func(_ context.Context, session *form.Session) error {
		view = viewOf(session)
		return nil
	})
	return view, err
}

// UpdateField sets one scalar field
func (s *FormService) UpdateField(ctx context.Context, sessionID string, req *models.UpdateFieldRequest) (view *models.FormView, err error) {
	err = s.run(ctx, "form.update_field", sessionID, func(ctx context.Context, session *form.Session) error {
		if err := session.UpdateField(ctx, req.Field, req.Value); err != nil {
			return err
		}
		view = viewOf(session)
		return nil
	}, attribute.String("form.field", req.Field))
	return view, err
}

// ChangeFramework selects a framework, clearing the version
func (s *FormService) ChangeFramework(ctx context.Context, sessionID, framework string) (view *models.FormView, err error) {
	err = s.run(ctx, "form.change_framework", sessionID, func(ctx context.Context, session *form.Session) error {
		if err := session.OnFrameworkChange(ctx, framework); err != nil {
			return err
		}
		view = viewOf(session)
		return nil
	}, attribute.String("form.framework", framework))
	return view, err
}

// ChangeVersion selects a version of the current framework
func (s *FormService) ChangeVersion(ctx context.Context, sessionID, version string) (view *models.FormView, err error) {
	err = s.run(ctx, "form.change_version", sessionID, func(ctx context.Context, session *form.Session) error {
		if err := session.OnVersionChange(ctx, version); err != nil {
			return err
		}
		view = viewOf(session)
		return nil
	})
	return view, err
}

// SetPendingHobby fills the hobby entry fields
func (s *FormService) SetPendingHobby(ctx context.Context, sessionID string, req *models.PendingHobbyRequest) (view *models.FormView, err error) {
	err = s.run(ctx, "form.set_pending_hobby", sessionID, func(_ context.Context, session *form.Session) error {
		if err := session.SetPendingHobby(req.Name, req.Duration); err != nil {
			return err
		}
		view = viewOf(session)
		return nil
	})
	return view, err
}

// AddHobby adds the pending hobby. When req is given it replaces the pending
// fields first. added is false when the entry was rejected; the view then
// carries the warning notice.
func (s *FormService) AddHobby(ctx context.Context, sessionID string, req *models.PendingHobbyRequest) (view *models.FormView, added bool, err error) {
	err = s.run(ctx, "form.add_hobby", sessionID, func(ctx context.Context, session *form.Session) error {
		if req != nil {
			if err := session.SetPendingHobby(req.Name, req.Duration); err != nil {
				return err
			}
		}
		ok, err := session.AddHobby(ctx)
		if err != nil {
			return err
		}
		added = ok
		view = viewOf(session)
		return nil
	})
	return view, added, err
}

// RemoveHobby removes the hobby at index
func (s *FormService) RemoveHobby(ctx context.Context, sessionID string, index int) (view *models.FormView, err error) {
	err = s.run(ctx, "form.remove_hobby", sessionID, func(ctx context.Context, session *form.Session) error {
		if err := session.RemoveHobby(ctx, index); err != nil {
			return err
		}
		view = viewOf(session)
		return nil
	}, attribute.Int("form.hobby_index", index))
	return view, err
}

// Submit validates and archives the form. Rejected and failed submits are
// reported through the response outcome, not the error.
func (s *FormService) Submit(ctx context.Context, sessionID string) (resp *models.SubmitResponse, err error) {
	err = s.run(ctx, "form.submit", sessionID, func(ctx context.Context, session *form.Session) error {
		result, submitErr := session.Submit(ctx)
		if submitErr != nil && result.Outcome != form.OutcomeFailed {
			return submitErr
		}
		if submitErr != nil {
			logger.LogError(ctx, submitErr, "Failed to archive form submission", zap.String("session_id", sessionID))
		}

		resp = &models.SubmitResponse{
			Outcome:    string(result.Outcome),
			Submission: result.Record,
			Form:       *viewOf(session),
		}
		if result.Outcome == form.OutcomeAccepted {
			logger.Info("Form submitted", zap.String("session_id", sessionID))
		}
		return nil
	})
	return resp, err
}

// Reset clears the form back to empty
func (s *FormService) Reset(ctx context.Context, sessionID string) (view *models.FormView, err error) {
	err = s.run(ctx, "form.reset", sessionID, func(ctx context.Context, session *form.Session) error {
		if err := session.Reset(ctx); err != nil {
			return err
		}
		view = viewOf(session)
		return nil
	})
	return view, err
}

// LastSubmission returns the last accepted submission of sessionID
func (s *FormService) LastSubmission(ctx context.Context, sessionID string) (*models.SubmissionRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "form.last_submission", attribute.String("form.session_id", sessionID))
	if err := validateSessionID(sessionID); err != nil {
		tracing.EndSpan(span, err)
		return nil, err
	}
	record, err := s.persist.LastSubmission(ctx, sessionID)
	tracing.EndSpan(span, err)
	return record, err
}

// run resolves the session and calls fn inside a span
func (s *FormService) run(ctx context.Context, op, sessionID string, fn func(context.Context, *form.Session) error, attrs ...attribute.KeyValue) (err error) {
	attrs = append(attrs, attribute.String("form.session_id", sessionID))
	ctx, span := tracing.StartSpan(ctx, op, attrs...)
	defer func() { tracing.EndSpan(span, err) }()

	if err = validateSessionID(sessionID); err != nil {
		return err
	}
	err = fn(ctx, s.session(ctx, sessionID))
	if errors.Is(err, form.ErrSessionClosed) {
		// Evicted between lookup and use; the next lookup rehydrates it.
		logger.Debug("Form session closed mid-request, reopening", zap.String("session_id", sessionID))
		err = fn(ctx, s.session(ctx, sessionID))
	}
	return err
}

func (s *FormService) session(ctx context.Context, id string) *form.Session {
	session, found := s.sessions.GetOrOpen(id, func() *form.Session {
		return form.Open(context.WithoutCancel(ctx), id, s.opts)
	})
	if !found {
		logger.Debug("Form session opened", zap.String("session_id", id))
	}
	return session
}

func validateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.InvalidInputError("sessionId", "must be a UUID")
	}
	return nil
}

func viewOf(session *form.Session) *models.FormView {
	view := session.View()
	return &view
}
