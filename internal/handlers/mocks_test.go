package handlers

import (
	"context"

	"github.com/getmentor/engineer-form/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockFormService is a mock implementation of services.FormServiceInterface
type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) Frameworks(ctx context.Context) *models.FrameworksResponse {
	args := m.Called(ctx)
	return args.Get(0).(*models.FrameworksResponse)
}

func (m *MockFormService) view(args mock.Arguments) (*models.FormView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormView), args.Error(1)
}

func (m *MockFormService) CreateForm(ctx context.Context) (*models.FormView, error) {
	return m.view(m.Called(ctx))
}

func (m *MockFormService) GetForm(ctx context.Context, sessionID string) (*models.FormView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *MockFormService) UpdateField(ctx context.Context, sessionID string, req *models.UpdateFieldRequest) (*models.FormView, error) {
	return m.view(m.Called(ctx, sessionID, req))
}

func (m *MockFormService) ChangeFramework(ctx context.Context, sessionID, framework string) (*models.FormView, error) {
	return m.view(m.Called(ctx, sessionID, framework))
}

func (m *MockFormService) ChangeVersion(ctx context.Context, sessionID, version string) (*models.FormView, error) {
	return m.view(m.Called(ctx, sessionID, version))
}

func (m *MockFormService) SetPendingHobby(ctx context.Context, sessionID string, req *models.PendingHobbyRequest) (*models.FormView, error) {
	return m.view(m.Called(ctx, sessionID, req))
}

func (m *MockFormService) AddHobby(ctx context.Context, sessionID string, req *models.PendingHobbyRequest) (*models.FormView, bool, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.FormView), args.Bool(1), args.Error(2)
}

func (m *MockFormService) RemoveHobby(ctx context.Context, sessionID string, index int) (*models.FormView, error) {
	return m.view(m.Called(ctx, sessionID, index))
}

func (m *MockFormService) Submit(ctx context.Context, sessionID string) (*models.SubmitResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockFormService) Reset(ctx context.Context, sessionID string) (*models.FormView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *MockFormService) LastSubmission(ctx context.Context, sessionID string) (*models.SubmissionRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmissionRecord), args.Error(1)
}
