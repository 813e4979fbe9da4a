package handlers

import (
	"net/http"
	"strconv"

	"github.com/casedesk/casedesk/internal/auth"
	"github.com/casedesk/casedesk/internal/service"
	"github.com/gin-gonic/gin"
)

type submitRequestBody struct {
	CaseID  int64  `json:"case_id" binding:"required"`
	Message string `json:"message"`
}

type reviewRequestBody struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVE REJECT"`
}

// SubmitRequest lets a lawyer ask for access to a case.
func SubmitRequest(requests *service.AccessRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var body submitRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		req, err := requests.Submit(c.Request.Context(), body.CaseID, principal.ID, body.Message)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, req)
	}
}

// MyRequests returns the calling lawyer's requests, newest first.
func MyRequests(requests *service.AccessRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		list, err := requests.ByLawyer(c.Request.Context(), principal.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// PendingRequests returns the pending requests for a case. The ownership
// guard has already run.
func PendingRequests(requests *service.AccessRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
			return
		}

		list, err := requests.PendingForCase(c.Request.Context(), caseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// ReviewRequest applies an approve/reject decision to a pending request.
// The reviewer must be an admin or the case's owner; the service enforces
// this against the request's own case id.
func ReviewRequest(requests *service.AccessRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		var body reviewRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		reviewed, err := requests.Review(c.Request.Context(), principal, requestID, service.Decision(body.Decision))
		if err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, reviewed)
	}
}
