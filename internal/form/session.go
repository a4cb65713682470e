package form

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/getmentor/engineer-form/internal/models"
	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/getmentor/engineer-form/pkg/metrics"
)

// Notice durations
const (
	successNoticeDuration = 2000 * time.Millisecond
	submitNoticeDuration  = 2500 * time.Millisecond
	warningNoticeDuration = 3000 * time.Millisecond
)

// ErrSessionClosed is returned by mutations on a session that was evicted
var ErrSessionClosed = apperrors.InternalError("form session closed")

// Options configures a Session
type Options struct {
	Table             *VersionTable
	Persistence       *Persistence
	EmailLookup       EmailLookup
	EmailCheckDelay   time.Duration
	StartupDelay      time.Duration
	CelebrationPeriod time.Duration
	Now               func() time.Time
}

// Session is the live state of one form-filling session. Every mutation
// persists the snapshot; every read derives errors and validity afresh.
type Session struct {
	id        string
	table     *VersionTable
	validator *Validator
	persist   *Persistence
	checker   *EmailChecker
	now       func() time.Time
	celebrate time.Duration

	mu             sync.Mutex
	state          models.FormState
	pending        models.PendingHobby
	touched        map[string]bool
	showAllErrors  bool
	email          EmailStatus
	notice         *models.Notice
	celebrateUntil time.Time
	readyAt        time.Time
	closed         bool
}

// Open rehydrates the session id from persistence, falling back to the empty
// state. A stored email address is re-checked.
func Open(ctx context.Context, id string, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	table := opts.Table
	if table == nil {
		table = DefaultVersionTable()
	}
	lookup := opts.EmailLookup
	if lookup == nil {
		lookup = NewReservedEmails()
	}

	s := &Session{
		id:        id,
		table:     table,
		validator: NewValidator(table),
		persist:   opts.Persistence,
		checker:   NewEmailChecker(lookup, opts.EmailCheckDelay),
		now:       now,
		celebrate: opts.CelebrationPeriod,
		touched:   make(map[string]bool),
		readyAt:   now().Add(opts.StartupDelay),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.persist.Load(ctx, id)
	for _, field := range models.FieldOrder {
		if !fieldEmpty(s.state, field) {
			s.touched[field] = true
		}
	}
	if ValidEmailShape(s.state.Email) {
		s.startEmailCheckLocked(s.state.Email)
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// State returns a copy of the current field values
func (s *Session) State() models.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Errors returns the full error map for the current state
func (s *Session) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.Validate(s.state, s.email, s.now())
}

// IsValid reports whether the form can be submitted right now
func (s *Session) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.IsValid(s.state, s.email, s.now())
}

// EmailStatus returns the latest email check status
func (s *Session) EmailStatus() EmailStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// AvailableVersions lists the versions of the selected framework
func (s *Session) AvailableVersions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Versions(s.state.Framework)
}

// HobbiesList returns the hobbies with their positions
func (s *Session) HobbiesList() []models.HobbyView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hobbyViews(s.state.Hobbies)
}

// View renders the session for clients
func (s *Session) View() models.FormView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() models.FormView {
	now := s.now()
	all := s.validator.Validate(s.state, s.email, now)

	visible := make(map[string]string, len(all))
	for field, msg := range all {
		if s.showAllErrors || s.touched[field] {
			visible[field] = msg
		}
	}

	view := models.FormView{
		SessionID:         s.id,
		State:             s.state.Clone(),
		Errors:            visible,
		AllErrors:         all,
		Valid:             s.validator.IsValid(s.state, s.email, now),
		AvailableVersions: s.table.Versions(s.state.Framework),
		Hobbies:           hobbyViews(s.state.Hobbies),
		PendingHobby:      s.pending,
		EmailCheck: models.EmailCheckView{
			Status:  s.email.Phase.String(),
			Message: s.email.Message,
		},
		Celebrating: now.Before(s.celebrateUntil),
		Interactive: !now.Before(s.readyAt),
	}
	if s.notice != nil && now.Before(s.notice.ExpiresAt) {
		n := *s.notice
		view.Notice = &n
	}
	return view
}

// UpdateField sets one scalar field. Names are reformatted to Latin
// capitalization; framework and version go through their own handlers so
// the framework/version dependency holds.
func (s *Session) UpdateField(ctx context.Context, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInteractiveLocked(); err != nil {
		return err
	}

	switch field {
	case models.FieldFirstName:
		s.state.FirstName = FormatLatinName(value)
	case models.FieldLastName:
		s.state.LastName = FormatLatinName(value)
	case models.FieldDateOfBirth:
		if strings.TrimSpace(value) == "" {
			s.state.DateOfBirth = nil
			break
		}
		date, err := models.ParseDate(value)
		if err != nil {
			return apperrors.InvalidInputError(field, err.Error())
		}
		s.state.DateOfBirth = date
	case models.FieldEmail:
		s.state.Email = strings.TrimSpace(value)
	case models.FieldFramework:
		return s.changeFrameworkLocked(ctx, value)
	case models.FieldVersion:
		return s.changeVersionLocked(ctx, value)
	default:
		return apperrors.InvalidInputError(field, "unknown field")
	}

	s.touched[field] = true
	metrics.FieldUpdates.WithLabelValues(field).Inc()
	s.saveLocked(ctx)

	if field == models.FieldEmail {
		s.refreshEmailCheckLocked()
	}
	return nil
}

// OnFrameworkChange selects a framework and clears the version. An empty
// framework is ignored.
func (s *Session) OnFrameworkChange(ctx context.Context, framework string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInteractiveLocked(); err != nil {
		return err
	}
	return s.changeFrameworkLocked(ctx, framework)
}

// OnVersionChange selects a version. An empty version is ignored.
func (s *Session) OnVersionChange(ctx context.Context, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInteractiveLocked(); err != nil {
		return err
	}
	return s.changeVersionLocked(ctx, version)
}

func (s *Session) changeFrameworkLocked(ctx context.Context, framework string) error {
	framework = strings.TrimSpace(framework)
	if framework == "" {
		return nil
	}
	if !s.table.Has(framework) {
		return apperrors.InvalidInputError(models.FieldFramework, "unknown framework "+framework)
	}
	s.state.Framework = framework
	s.state.Version = ""
	s.touched[models.FieldFramework] = true
	metrics.FieldUpdates.WithLabelValues(models.FieldFramework).Inc()
	s.saveLocked(ctx)
	return nil
}

func (s *Session) changeVersionLocked(ctx context.Context, version string) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil
	}
	s.state.Version = version
	s.touched[models.FieldVersion] = true
	metrics.FieldUpdates.WithLabelValues(models.FieldVersion).Inc()
	s.saveLocked(ctx)
	return nil
}

// refreshEmailCheckLocked starts a check for a well-formed address and
// drops any check for a malformed one.
func (s *Session) refreshEmailCheckLocked() {
	if ValidEmailShape(s.state.Email) {
		s.startEmailCheckLocked(s.state.Email)
		return
	}
	id := s.checker.Cancel()
	s.email = EmailStatus{Phase: EmailIdle, RequestID: id}
}

func (s *Session) startEmailCheckLocked(email string) {
	id := s.checker.Start(email, s.applyEmailResult)
	s.email = EmailStatus{Phase: EmailChecking, RequestID: id}
}

// applyEmailResult runs on the checker goroutine. Stale results are dropped.
func (s *Session) applyEmailResult(id uint64, message *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.email.Phase != EmailChecking || s.email.RequestID != id {
		return
	}
	s.email = EmailStatus{Phase: EmailResolved, Message: message, RequestID: id}
}

func (s *Session) ensureInteractiveLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.now().Before(s.readyAt) {
		return apperrors.ErrNotReady
	}
	return nil
}

func (s *Session) saveLocked(ctx context.Context) {
	// Failures are logged by Persistence; memory stays authoritative.
	_ = s.persist.Save(ctx, s.id, s.state)
}

func (s *Session) setNoticeLocked(level, message string, d time.Duration) {
	s.notice = &models.Notice{Level: level, Message: message, ExpiresAt: s.now().Add(d)}
}

// Close cancels any in-flight email check. The session rejects mutations
// afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.checker.Close()
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func hobbyViews(hobbies []models.Hobby) []models.HobbyView {
	out := make([]models.HobbyView, len(hobbies))
	for i, h := range hobbies {
		out[i] = models.HobbyView{ID: i, Name: h.Name, Duration: h.Duration}
	}
	return out
}

func fieldEmpty(state models.FormState, field string) bool {
	switch field {
	case models.FieldFirstName:
		return state.FirstName == ""
	case models.FieldLastName:
		return state.LastName == ""
	case models.FieldDateOfBirth:
		return state.DateOfBirth == nil
	case models.FieldFramework:
		return state.Framework == ""
	case models.FieldVersion:
		return state.Version == ""
	case models.FieldEmail:
		return state.Email == ""
	case models.FieldHobbies:
		return len(state.Hobbies) == 0
	}
	return true
}
