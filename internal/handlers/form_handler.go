package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/getmentor/engineer-form/internal/form"
	"github.com/getmentor/engineer-form/internal/models"
	"github.com/getmentor/engineer-form/internal/services"
	"github.com/gin-gonic/gin"
)

// FormHandler handles the engineer profile form endpoints
type FormHandler struct {
	service services.FormServiceInterface
}

// NewFormHandler creates a new form handler
func NewFormHandler(service services.FormServiceInterface) *FormHandler {
	return &FormHandler{service: service}
}

// GetFrameworks handles GET /api/v1/frameworks
func (h *FormHandler) GetFrameworks(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Frameworks(c.Request.Context()))
}

// CreateForm handles POST /api/v1/forms
func (h *FormHandler) CreateForm(c *gin.Context) {
	view, err := h.service.CreateForm(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to create form")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetForm handles GET /api/v1/forms/:id
func (h *FormHandler) GetForm(c *gin.Context) {
	view, err := h.service.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load form")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateField handles PATCH /api/v1/forms/:id/fields
func (h *FormHandler) UpdateField(c *gin.Context) {
	var req models.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	view, err := h.service.UpdateField(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update field")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ChangeFramework handles PUT /api/v1/forms/:id/framework
func (h *FormHandler) ChangeFramework(c *gin.Context) {
	var req models.FrameworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	view, err := h.service.ChangeFramework(c.Request.Context(), c.Param("id"), req.Framework)
	if err != nil {
		respondServiceError(c, err, "Failed to change framework")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ChangeVersion handles PUT /api/v1/forms/:id/version
func (h *FormHandler) ChangeVersion(c *gin.Context) {
	var req models.VersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	view, err := h.service.ChangeVersion(c.Request.Context(), c.Param("id"), req.Version)
	if err != nil {
		respondServiceError(c, err, "Failed to change version")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetPendingHobby handles PUT /api/v1/forms/:id/pending-hobby
func (h *FormHandler) SetPendingHobby(c *gin.Context) {
	var req models.PendingHobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	view, err := h.service.SetPendingHobby(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update hobby entry")
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddHobby handles POST /api/v1/forms/:id/hobbies. The body is optional;
// without one the pending entry is added. A rejected entry still answers 200
// with added=false and the warning notice in the form view.
func (h *FormHandler) AddHobby(c *gin.Context) {
	var req *models.PendingHobbyRequest
	var body models.PendingHobbyRequest
	switch err := c.ShouldBindJSON(&body); {
	case err == nil:
		req = &body
	case errors.Is(err, io.EOF):
		// empty body, whatever its Content-Length
	default:
		respondBindingError(c, err)
		return
	}

	view, added, err := h.service.AddHobby(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to add hobby")
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"added": added, "form": view})
}

// RemoveHobby handles DELETE /api/v1/forms/:id/hobbies/:index
func (h *FormHandler) RemoveHobby(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid hobby index", err)
		return
	}

	view, err := h.service.RemoveHobby(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondServiceError(c, err, "Failed to remove hobby")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Submit handles POST /api/v1/forms/:id/submit
func (h *FormHandler) Submit(c *gin.Context) {
	resp, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to submit form")
		return
	}

	switch form.SubmitOutcome(resp.Outcome) {
	case form.OutcomeAccepted:
		c.JSON(http.StatusOK, resp)
	case form.OutcomeRejected:
		c.JSON(http.StatusConflict, resp)
	default:
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// Reset handles DELETE /api/v1/forms/:id/state
func (h *FormHandler) Reset(c *gin.Context) {
	view, err := h.service.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to reset form")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetLastSubmission handles GET /api/v1/forms/:id/submission
func (h *FormHandler) GetLastSubmission(c *gin.Context) {
	record, err := h.service.LastSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load submission")
		return
	}
	c.JSON(http.StatusOK, record)
}

// RegisterRoutes mounts the form endpoints on group. submitLimits run ahead
// of the submit handler only.
func (h *FormHandler) RegisterRoutes(group *gin.RouterGroup, submitLimits ...gin.HandlerFunc) {
	group.GET("/frameworks", h.GetFrameworks)

	forms := group.Group("/forms")
	forms.POST("", h.CreateForm)
	forms.GET("/:id", h.GetForm)
	forms.PATCH("/:id/fields", h.UpdateField)
	forms.PUT("/:id/framework", h.ChangeFramework)
	forms.PUT("/:id/version", h.ChangeVersion)
	forms.PUT("/:id/pending-hobby", h.SetPendingHobby)
	forms.POST("/:id/hobbies", h.AddHobby)
	forms.DELETE("/:id/hobbies/:index", h.RemoveHobby)
	forms.POST("/:id/submit", append(submitLimits, h.Submit)...)
	forms.DELETE("/:id/state", h.Reset)
	forms.GET("/:id/submission", h.GetLastSubmission)
}
