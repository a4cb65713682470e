package form

import (
	"time"

	"github.com/getmentor/engineer-form/internal/models"
)

// Messages shown for failing rules
const (
	MsgFirstNameRequired     = "First name is required"
	MsgLastNameRequired      = "Last name is required"
	MsgMinLength             = "Minimum length is 2 characters"
	MsgLatinName             = "Only Latin letters, starting with a capital letter"
	MsgDateRequired          = "Date of birth is required"
	MsgDateInFuture          = "Date of birth cannot be in the future"
	MsgFrameworkRequired     = "Framework is required"
	MsgFrameworkUnknown      = "Unknown framework"
	MsgVersionRequired       = "Version is required"
	MsgVersionNotAvailable   = "Version is not available for the selected framework"
	MsgEmailRequired         = "Email is required"
	MsgEmailInvalid          = "Please enter a valid email"
	MsgEmailTaken            = "This email is already taken"
	MsgEmailCheckFailed      = "Error validating email"
	MsgHobbiesRequired       = "At least one hobby is required"
	MsgHobbyEntriesMalformed = "Each hobby needs a Latin name and a numeric duration"
)

// Errors maps a field name to the first rule it fails
type Errors map[string]string

// Has reports whether field has an error
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Validator derives the error map from a form state
type Validator struct {
	table *VersionTable
}

// NewValidator creates a validator bound to a version table
func NewValidator(table *VersionTable) *Validator {
	return &Validator{table: table}
}

// Validate runs every field's rules in order; the first failure per field
// wins. now decides whether the birth date lies in the future.
func (v *Validator) Validate(state models.FormState, email EmailStatus, now time.Time) Errors {
	errs := Errors{}

	if msg, bad := nameRule(state.FirstName, MsgFirstNameRequired); bad {
		errs[models.FieldFirstName] = msg
	}
	if msg, bad := nameRule(state.LastName, MsgLastNameRequired); bad {
		errs[models.FieldLastName] = msg
	}

	if state.DateOfBirth == nil {
		errs[models.FieldDateOfBirth] = MsgDateRequired
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if state.DateOfBirth.After(today) {
			errs[models.FieldDateOfBirth] = MsgDateInFuture
		}
	}

	switch {
	case state.Framework == "":
		errs[models.FieldFramework] = MsgFrameworkRequired
	case !v.table.Has(state.Framework):
		errs[models.FieldFramework] = MsgFrameworkUnknown
	}

	switch {
	case state.Version == "":
		errs[models.FieldVersion] = MsgVersionRequired
	case !v.table.Allows(state.Framework, state.Version):
		errs[models.FieldVersion] = MsgVersionNotAvailable
	}

	if msg, bad := emailSyncRule(state.Email); bad {
		errs[models.FieldEmail] = msg
	} else if email.Phase == EmailResolved && email.Message != nil {
		errs[models.FieldEmail] = *email.Message
	}

	if len(state.Hobbies) == 0 {
		errs[models.FieldHobbies] = MsgHobbiesRequired
	} else {
		for _, h := range state.Hobbies {
			if !ValidLatinName(h.Name) || !hobbyDurationForm.MatchString(h.Duration) {
				errs[models.FieldHobbies] = MsgHobbyEntriesMalformed
				break
			}
		}
	}

	return errs
}

// IsValid holds when no field fails, there is at least one hobby and the
// email check is neither pending nor reporting a conflict.
func (v *Validator) IsValid(state models.FormState, email EmailStatus, now time.Time) bool {
	if email.Phase == EmailChecking {
		return false
	}
	if email.Phase == EmailResolved && email.Message != nil {
		return false
	}
	return len(v.Validate(state, email, now)) == 0 && len(state.Hobbies) > 0
}

func nameRule(name, requiredMsg string) (string, bool) {
	switch {
	case name == "":
		return requiredMsg, true
	case len(name) < minNameLength:
		return MsgMinLength, true
	case !latinNamePattern.MatchString(name):
		return MsgLatinName, true
	}
	return "", false
}

func emailSyncRule(email string) (string, bool) {
	switch {
	case email == "":
		return MsgEmailRequired, true
	case !ValidEmailShape(email):
		return MsgEmailInvalid, true
	}
	return "", false
}
