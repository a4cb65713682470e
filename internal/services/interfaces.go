package services

import (
	"context"

	"github.com/getmentor/engineer-form/internal/models"
)

// FormServiceInterface defines the operations of the engineer profile form
type FormServiceInterface interface {
	Frameworks(ctx context.Context) *models.FrameworksResponse
	CreateForm(ctx context.Context) (*models.FormView, error)
	GetForm(ctx context.Context, sessionID string) (*models.FormView, error)
	UpdateField(ctx context.Context, sessionID string, req *models.UpdateFieldRequest) (*models.FormView, error)
	ChangeFramework(ctx context.Context, sessionID, framework string) (*models.FormView, error)
	ChangeVersion(ctx context.Context, sessionID, version string) (*models.FormView, error)
	SetPendingHobby(ctx context.Context, sessionID string, req *models.PendingHobbyRequest) (*models.FormView, error)
	AddHobby(ctx context.Context, sessionID string, req *models.PendingHobbyRequest) (*models.FormView, bool, error)
	RemoveHobby(ctx context.Context, sessionID string, index int) (*models.FormView, error)
	Submit(ctx context.Context, sessionID string) (*models.SubmitResponse, error)
	Reset(ctx context.Context, sessionID string) (*models.FormView, error)
	LastSubmission(ctx context.Context, sessionID string) (*models.SubmissionRecord, error)
}

// Ensure services implement their interfaces
var _ FormServiceInterface = (*FormService)(nil)
