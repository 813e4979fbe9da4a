package handlers

import (
	"errors"
	"net/http"

	"github.com/casedesk/casedesk/internal/service"
	"github.com/gin-gonic/gin"
)

// writeServiceError maps service sentinels onto the HTTP error taxonomy.
// Workflow and grant operations sit behind the authorization boundary, so
// they may explain themselves; anything unrecognized collapses to 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotALawyer),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrNotCaseOwner):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCaseNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrNotGranted):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyGranted),
		errors.Is(err, service.ErrDuplicatePending),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReviewForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrInvalidLogin):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
