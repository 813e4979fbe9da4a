package handlers

import (
	"net/http"
	"strconv"

	"github.com/casedesk/casedesk/internal/service"
	"github.com/gin-gonic/gin"
)

type grantRequest struct {
	LawyerID int64 `json:"lawyer_id" binding:"required"`
}

// GrantAccess gives a lawyer access to a case (administrative path).
// Granting an already-granted pair is a no-op, reported as such.
func GrantAccess(grants *service.GrantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
			return
		}

		var req grantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		created, err := grants.Grant(c.Request.Context(), caseID, req.LawyerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		if !created {
			c.JSON(http.StatusOK, gin.H{"status": "already granted"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "granted"})
	}
}

// RevokeAccess removes a lawyer's access to a case.
func RevokeAccess(grants *service.GrantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
			return
		}

		lawyerID, err := strconv.ParseInt(c.Param("lawyerId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lawyer id"})
			return
		}

		if err := grants.Revoke(c.Request.Context(), caseID, lawyerID); err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "revoked"})
	}
}

// ListGrants returns the live grants for a case (owner or admin).
func ListGrants(grants *service.GrantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
			return
		}

		list, err := grants.ListForCase(c.Request.Context(), caseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, list)
	}
}
