package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondServiceError maps a service error onto its HTTP status. Client
// errors echo the error text; anything else answers with fallback.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, apperrors.ErrNotReady):
		respondError(c, http.StatusTooEarly, "Form is not ready yet", err)
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}

// respondBindingError reports a request body that failed to bind
func respondBindingError(c *gin.Context, err error) {
	details := ParseValidationErrors(err)
	if len(details) == 0 {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details, err)
}
