package handlers

import (
	"net/http"
	"strconv"

	"github.com/casedesk/casedesk/internal/auth"
	"github.com/casedesk/casedesk/internal/model"
	"github.com/casedesk/casedesk/internal/service"
	"github.com/gin-gonic/gin"
)

type createCaseRequest struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type updateCaseRequest struct {
	Title    string `json:"title"`
	Status   string `json:"status" binding:"omitempty,oneof=OPEN ON_HOLD CLOSED ARCHIVED"`
	Category string `json:"category"`
}

// CreateCase opens a new case owned by the calling client.
func CreateCase(cases *service.CaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req createCaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		created, err := cases.Create(c.Request.Context(), principal.ID, req.Title, req.Category)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

// GetCase returns one case. The access guard has already run.
func GetCase(cases *service.CaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
			return
		}

		record, err := cases.Get(c.Request.Context(), caseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if record == nil {
			// The guard admitted an admin to a case that vanished since.
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

// ListCases returns every case the caller may access.
func ListCases(cases *service.CaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		list, err := cases.ListAccessible(c.Request.Context(), principal)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// UpdateCase changes a case's mutable fields. The ownership guard has
// already run.
func UpdateCase(cases *service.CaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
			return
		}

		var req updateCaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, err := cases.Update(c.Request.Context(), caseID, req.Title, model.CaseStatus(req.Status), req.Category)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
