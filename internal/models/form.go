package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Field names as they appear in the error map and on the wire
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldDateOfBirth = "dateOfBirth"
	FieldFramework   = "framework"
	FieldVersion     = "version"
	FieldEmail       = "email"
	FieldHobbies     = "hobbies"
)

// FieldOrder is the order fields are validated and reported in
var FieldOrder = []string{
	FieldFirstName,
	FieldLastName,
	FieldDateOfBirth,
	FieldFramework,
	FieldVersion,
	FieldEmail,
	FieldHobbies,
}

const (
	dateLayout          = "2006-01-02"
	SubmittedDateLayout = "02-01-2006"
)

// Hobby is one entry of the hobbies list
type Hobby struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
}

// Date is a calendar day. It encodes as YYYY-MM-DD and also accepts full
// RFC3339 timestamps, which is how browser clients serialize dates.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD or RFC3339 input
func ParseDate(raw string) (*Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Equal reports whether both dates name the same day
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// FormState holds the current field values of one form session
type FormState struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	DateOfBirth *Date   `json:"dateOfBirth"`
	Framework   string  `json:"framework"`
	Version     string  `json:"version"`
	Email       string  `json:"email"`
	Hobbies     []Hobby `json:"hobbies"`
}

// EmptyFormState returns the default state a session starts from
func EmptyFormState() FormState {
	return FormState{Hobbies: []Hobby{}}
}

// Clone returns a deep copy so callers never share the hobbies slice
func (s FormState) Clone() FormState {
	out := s
	out.Hobbies = make([]Hobby, len(s.Hobbies))
	copy(out.Hobbies, s.Hobbies)
	if s.DateOfBirth != nil {
		d := *s.DateOfBirth
		out.DateOfBirth = &d
	}
	return out
}

// EncodeFormState serializes a snapshot for the key-value store
func EncodeFormState(s FormState) ([]byte, error) {
	if s.Hobbies == nil {
		s.Hobbies = []Hobby{}
	}
	return json.Marshal(s)
}

// DecodeFormState parses a stored snapshot. Unknown fields are rejected so a
// foreign payload is not mistaken for form data.
func DecodeFormState(data []byte) (FormState, error) {
	var state FormState
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&state); err != nil {
		return FormState{}, fmt.Errorf("decode form snapshot: %w", err)
	}
	if state.Hobbies == nil {
		state.Hobbies = []Hobby{}
	}
	return state, nil
}

// SubmissionRecord is the archived copy of an accepted form
type SubmissionRecord struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth string    `json:"dateOfBirth"` // DD-MM-YYYY
	Framework   string    `json:"framework"`
	Version     string    `json:"version"`
	Email       string    `json:"email"`
	Hobbies     []Hobby   `json:"hobbies"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewSubmissionRecord formats s for archiving
func NewSubmissionRecord(s FormState, submittedAt time.Time) SubmissionRecord {
	record := SubmissionRecord{
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Framework:   s.Framework,
		Version:     s.Version,
		Email:       s.Email,
		Hobbies:     append([]Hobby{}, s.Hobbies...),
		SubmittedAt: submittedAt.UTC(),
	}
	if s.DateOfBirth != nil {
		record.DateOfBirth = s.DateOfBirth.Format(SubmittedDateLayout)
	}
	return record
}
