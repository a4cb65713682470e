package form

import (
	"context"
	"fmt"

	"github.com/getmentor/engineer-form/internal/models"
	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/getmentor/engineer-form/pkg/metrics"
)

const (
	MsgHobbyAdded   = "Hobby added"
	MsgHobbyInvalid = "Fill in hobby and duration (numbers only)"
)

// ErrHobbyIndexOutOfRange is returned by RemoveHobby for a bad position
var ErrHobbyIndexOutOfRange = apperrors.NotFoundError("hobby")

// SetPendingHobby fills the hobby entry fields without adding anything
func (s *Session) SetPendingHobby(name, duration string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInteractiveLocked(); err != nil {
		return err
	}
	s.pending = models.PendingHobby{Name: name, Duration: duration}
	return nil
}

// AddHobby appends the pending entry when both fields are filled, the name
// is a Latin name and the duration is numeric. The pending fields are cleared
// only on success; on failure a warning notice is raised and nothing changes.
func (s *Session) AddHobby(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInteractiveLocked(); err != nil {
		return false, err
	}

	name := FormatLatinName(s.pending.Name)
	duration := StripMarkup(s.pending.Duration)

	if name == "" || duration == "" || !ValidLatinName(name) || !digitsPattern.MatchString(duration) {
		metrics.HobbyOperations.WithLabelValues("add", "rejected").Inc()
		s.setNoticeLocked("warning", MsgHobbyInvalid, warningNoticeDuration)
		return false, nil
	}

	hobbies := make([]models.Hobby, len(s.state.Hobbies), len(s.state.Hobbies)+1)
	copy(hobbies, s.state.Hobbies)
	s.state.Hobbies = append(hobbies, models.Hobby{Name: name, Duration: FormatDuration(duration)})
	s.pending = models.PendingHobby{}
	s.touched[models.FieldHobbies] = true

	metrics.HobbyOperations.WithLabelValues("add", "success").Inc()
	s.saveLocked(ctx)
	s.setNoticeLocked("success", MsgHobbyAdded, successNoticeDuration)
	return true, nil
}

// RemoveHobby deletes the hobby at index, shifting later entries down. An
// out-of-range index leaves the list untouched.
func (s *Session) RemoveHobby(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInteractiveLocked(); err != nil {
		return err
	}

	if index < 0 || index >= len(s.state.Hobbies) {
		metrics.HobbyOperations.WithLabelValues("remove", "rejected").Inc()
		return fmt.Errorf("index %d of %d: %w", index, len(s.state.Hobbies), ErrHobbyIndexOutOfRange)
	}

	hobbies := make([]models.Hobby, 0, len(s.state.Hobbies)-1)
	hobbies = append(hobbies, s.state.Hobbies[:index]...)
	hobbies = append(hobbies, s.state.Hobbies[index+1:]...)
	s.state.Hobbies = hobbies
	s.touched[models.FieldHobbies] = true

	metrics.HobbyOperations.WithLabelValues("remove", "success").Inc()
	s.saveLocked(ctx)
	return nil
}
