package handlers

import (
	"net/http"
	"strconv"

	"github.com/casedesk/casedesk/internal/service"
	"github.com/gin-gonic/gin"
)

// DeactivateUser soft-deletes an account (admin only).
func DeactivateUser(users *service.UserService) gin.HandlerFunc {
	return setActive(users, false)
}

// ActivateUser reinstates a soft-deleted account (admin only).
func ActivateUser(users *service.UserService) gin.HandlerFunc {
	return setActive(users, true)
}

func setActive(users *service.UserService, active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		if err := users.SetActive(c.Request.Context(), userID, active); err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}
