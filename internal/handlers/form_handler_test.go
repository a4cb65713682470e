package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getmentor/engineer-form/internal/models"
	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSessionID = "3f0c1c9e-2a55-4a57-9d3b-6f8f0f7b9a11"

func setupFormRouter(svc *MockFormService) *gin.Engine {
	router := gin.New()
	NewFormHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleView() *models.FormView {
	return &models.FormView{
		SessionID: testSessionID,
		State:     models.EmptyFormState(),
		Errors:    map[string]string{},
		AllErrors: map[string]string{models.FieldFirstName: "First name is required"},
	}
}

func TestFormHandler_GetFrameworks(t *testing.T) {
	svc := new(MockFormService)
	svc.On("Frameworks", mock.Anything).Return(&models.FrameworksResponse{
		Frameworks: []models.FrameworkVersions{{Key: "vue", Versions: []string{"3.3.1"}}},
	})

	w := perform(setupFormRouter(svc), http.MethodGet, "/api/v1/frameworks", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"frameworks":[{"key":"vue","versions":["3.3.1"]}]}`, w.Body.String())
}

func TestFormHandler_CreateForm(t *testing.T) {
	svc := new(MockFormService)
	svc.On("CreateForm", mock.Anything).Return(sampleView(), nil)

	w := perform(setupFormRouter(svc), http.MethodPost, "/api/v1/forms", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	var view models.FormView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, testSessionID, view.SessionID)
	assert.Equal(t, []models.Hobby{}, view.State.Hobbies)
}

func TestFormHandler_UpdateField(t *testing.T) {
	svc := new(MockFormService)
	svc.On("UpdateField", mock.Anything, testSessionID, &models.UpdateFieldRequest{Field: "firstName", Value: "john"}).
		Return(sampleView(), nil).Once()

	w := perform(setupFormRouter(svc), http.MethodPatch, "/api/v1/forms/"+testSessionID+"/fields",
		`{"field":"firstName","value":"john"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestFormHandler_UpdateField_ValidationFailed(t *testing.T) {
	svc := new(MockFormService)
	router := setupFormRouter(svc)

	w := perform(router, http.MethodPatch, "/api/v1/forms/"+testSessionID+"/fields", `{"field":"hobbies","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
	assert.Contains(t, w.Body.String(), "Field must be one of")

	w = perform(router, http.MethodPatch, "/api/v1/forms/"+testSessionID+"/fields", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")

	svc.AssertNotCalled(t, "UpdateField", mock.Anything, mock.Anything, mock.Anything)
}

func TestFormHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", apperrors.InvalidInputError("framework", "unknown framework svelte"), http.StatusBadRequest},
		{"not ready", apperrors.ErrNotReady, http.StatusTooEarly},
		{"not found", apperrors.NotFoundError("hobby"), http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockFormService)
			svc.On("ChangeFramework", mock.Anything, testSessionID, "svelte").Return(nil, tt.err)

			w := perform(setupFormRouter(svc), http.MethodPut, "/api/v1/forms/"+testSessionID+"/framework",
				`{"framework":"svelte"}`)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestFormHandler_AddHobby(t *testing.T) {
	t.Run("with body", func(t *testing.T) {
		svc := new(MockFormService)
		svc.On("AddHobby", mock.Anything, testSessionID, &models.PendingHobbyRequest{Name: "Chess", Duration: "3"}).
			Return(sampleView(), true, nil)

		w := perform(setupFormRouter(svc), http.MethodPost, "/api/v1/forms/"+testSessionID+"/hobbies",
			`{"name":"Chess","duration":"3"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"added":true`)
	})

	t.Run("pending entry", func(t *testing.T) {
		svc := new(MockFormService)
		svc.On("AddHobby", mock.Anything, testSessionID, (*models.PendingHobbyRequest)(nil)).
			Return(sampleView(), false, nil)

		w := perform(setupFormRouter(svc), http.MethodPost, "/api/v1/forms/"+testSessionID+"/hobbies", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"added":false`)
	})

	t.Run("empty body of unknown length", func(t *testing.T) {
		svc := new(MockFormService)
		svc.On("AddHobby", mock.Anything, testSessionID, (*models.PendingHobbyRequest)(nil)).
			Return(sampleView(), true, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/"+testSessionID+"/hobbies",
			io.NopCloser(strings.NewReader("")))
		req.Header.Set("Content-Type", "application/json")
		require.Equal(t, int64(-1), req.ContentLength)
		w := httptest.NewRecorder()
		setupFormRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockFormService)

		w := perform(setupFormRouter(svc), http.MethodPost, "/api/v1/forms/"+testSessionID+"/hobbies", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddHobby", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFormHandler_RemoveHobby(t *testing.T) {
	svc := new(MockFormService)
	svc.On("RemoveHobby", mock.Anything, testSessionID, 1).Return(sampleView(), nil)
	svc.On("RemoveHobby", mock.Anything, testSessionID, 9).Return(nil, apperrors.NotFoundError("hobby"))
	router := setupFormRouter(svc)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodDelete, "/api/v1/forms/"+testSessionID+"/hobbies/1", "").Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodDelete, "/api/v1/forms/"+testSessionID+"/hobbies/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodDelete, "/api/v1/forms/"+testSessionID+"/hobbies/first", "").Code)
}

func TestFormHandler_Submit(t *testing.T) {
	tests := []struct {
		outcome string
		status  int
	}{
		{"accepted", http.StatusOK},
		{"rejected", http.StatusConflict},
		{"failed", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			svc := new(MockFormService)
			svc.On("Submit", mock.Anything, testSessionID).Return(&models.SubmitResponse{
				Outcome: tt.outcome,
				Form:    *sampleView(),
			}, nil)

			w := perform(setupFormRouter(svc), http.MethodPost, "/api/v1/forms/"+testSessionID+"/submit", "")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"outcome":"`+tt.outcome+`"`)
		})
	}
}

func TestFormHandler_ResetAndSubmission(t *testing.T) {
	svc := new(MockFormService)
	svc.On("Reset", mock.Anything, testSessionID).Return(sampleView(), nil)
	svc.On("LastSubmission", mock.Anything, testSessionID).Return(&models.SubmissionRecord{
		FirstName:   "John",
		DateOfBirth: "17-05-1990",
		Hobbies:     []models.Hobby{},
	}, nil)
	router := setupFormRouter(svc)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodDelete, "/api/v1/forms/"+testSessionID+"/state", "").Code)

	w := perform(router, http.MethodGet, "/api/v1/forms/"+testSessionID+"/submission", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dateOfBirth":"17-05-1990"`)
}

func TestFormHandler_SubmissionNotFound(t *testing.T) {
	svc := new(MockFormService)
	svc.On("LastSubmission", mock.Anything, testSessionID).Return(nil, apperrors.NotFoundError("submission"))

	w := perform(setupFormRouter(svc), http.MethodGet, "/api/v1/forms/"+testSessionID+"/submission", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"submission not found"}`, w.Body.String())
}
