package form

import (
	"context"

	"github.com/getmentor/engineer-form/internal/models"
	"github.com/getmentor/engineer-form/pkg/metrics"
)

const (
	MsgSubmitted        = "Data saved successfully"
	MsgSubmitRejected   = "Please fix the errors before submitting"
	MsgEmailCheckActive = "Email check is still in progress"
	MsgSubmitFailed     = "Failed to save data"
)

// SubmitOutcome is where a submit attempt ended
type SubmitOutcome string

const (
	// OutcomeAccepted: archived and reset
	OutcomeAccepted SubmitOutcome = "accepted"
	// OutcomeRejected: validation failed, nothing changed
	OutcomeRejected SubmitOutcome = "rejected"
	// OutcomeFailed: archiving failed, nothing changed
	OutcomeFailed SubmitOutcome = "failed"
)

// SubmitResult describes a submit attempt
type SubmitResult struct {
	Outcome SubmitOutcome
	Record  *models.SubmissionRecord
	Errors  Errors
}

// Submit validates the form with every error made visible. A valid form is
// archived, reset to empty and starts the celebration window. Archiving is
// all-or-nothing: on failure the form is left as it was and the error is
// returned alongside OutcomeFailed.
func (s *Session) Submit(ctx context.Context) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInteractiveLocked(); err != nil {
		return SubmitResult{}, err
	}

	now := s.now()
	s.showAllErrors = true
	errs := s.validator.Validate(s.state, s.email, now)

	if !s.validator.IsValid(s.state, s.email, now) {
		metrics.FormSubmissions.WithLabelValues(string(OutcomeRejected)).Inc()
		msg := MsgSubmitRejected
		if len(errs) == 0 && s.email.Phase == EmailChecking {
			msg = MsgEmailCheckActive
		}
		s.setNoticeLocked("warning", msg, warningNoticeDuration)
		return SubmitResult{Outcome: OutcomeRejected, Errors: errs}, nil
	}

	record := models.NewSubmissionRecord(s.state, now)
	if err := s.persist.ArchiveSubmission(ctx, s.id, record); err != nil {
		metrics.FormSubmissions.WithLabelValues(string(OutcomeFailed)).Inc()
		s.setNoticeLocked("error", MsgSubmitFailed, warningNoticeDuration)
		return SubmitResult{Outcome: OutcomeFailed, Errors: errs}, err
	}

	s.resetLocked(ctx)
	s.setNoticeLocked("success", MsgSubmitted, submitNoticeDuration)
	s.celebrateUntil = now.Add(s.celebrate)
	metrics.FormSubmissions.WithLabelValues(string(OutcomeAccepted)).Inc()

	return SubmitResult{Outcome: OutcomeAccepted, Record: &record, Errors: Errors{}}, nil
}

// Reset clears the form back to its empty default and persists it
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInteractiveLocked(); err != nil {
		return err
	}
	s.resetLocked(ctx)
	s.notice = nil
	return nil
}

func (s *Session) resetLocked(ctx context.Context) {
	s.state = models.EmptyFormState()
	s.pending = models.PendingHobby{}
	s.touched = make(map[string]bool)
	s.showAllErrors = false
	s.email = EmailStatus{Phase: EmailIdle, RequestID: s.checker.Cancel()}
	_ = s.persist.Clear(ctx, s.id)
}
