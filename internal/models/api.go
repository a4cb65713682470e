package models

import "time"

// UpdateFieldRequest sets one scalar field
type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required,oneof=firstName lastName dateOfBirth email framework version"`
	Value string `json:"value" binding:"max=256"`
}

// FrameworkRequest selects a framework
type FrameworkRequest struct {
	Framework string `json:"framework" binding:"max=64"`
}

// VersionRequest selects a version of the current framework
type VersionRequest struct {
	Version string `json:"version" binding:"max=64"`
}

// PendingHobbyRequest fills the hobby entry fields
type PendingHobbyRequest struct {
	Name     string `json:"name" binding:"max=128"`
	Duration string `json:"duration" binding:"max=16"`
}

// PendingHobby is the not-yet-added hobby entry
type PendingHobby struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
}

// HobbyView is a hobby with its position in the list
type HobbyView struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Duration string `json:"duration"`
}

// Notice is a transient user-facing message
type Notice struct {
	Level     string    `json:"level"` // success, warning, error
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EmailCheckView reports the asynchronous email check
type EmailCheckView struct {
	Status  string  `json:"status"` // idle, checking, resolved
	Message *string `json:"message"`
}

// FormView is everything a client needs to render the form
type FormView struct {
	SessionID         string            `json:"sessionId"`
	State             FormState         `json:"state"`
	Errors            map[string]string `json:"errors"`
	AllErrors         map[string]string `json:"allErrors"`
	Valid             bool              `json:"valid"`
	AvailableVersions []string          `json:"availableVersions"`
	Hobbies           []HobbyView       `json:"hobbies"`
	PendingHobby      PendingHobby      `json:"pendingHobby"`
	EmailCheck        EmailCheckView    `json:"emailCheck"`
	Notice            *Notice           `json:"notice,omitempty"`
	Celebrating       bool              `json:"celebrating"`
	Interactive       bool              `json:"interactive"`
}

// SubmitResponse reports the outcome of a submit
type SubmitResponse struct {
	Outcome    string            `json:"outcome"` // accepted, rejected, failed
	Submission *SubmissionRecord `json:"submission,omitempty"`
	Form       FormView          `json:"form"`
}

// FrameworksResponse lists the framework version table
type FrameworksResponse struct {
	Frameworks []FrameworkVersions `json:"frameworks"`
}

// FrameworkVersions is one row of the version table
type FrameworkVersions struct {
	Key      string   `json:"key"`
	Versions []string `json:"versions"`
}
