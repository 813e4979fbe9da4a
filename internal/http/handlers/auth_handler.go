package handlers

import (
	"net/http"
	"strings"

	"github.com/casedesk/casedesk/internal/auth"
	"github.com/casedesk/casedesk/internal/model"
	"github.com/casedesk/casedesk/internal/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=CLIENT LAWYER"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a CLIENT or LAWYER account.
func Register(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := users.Register(c.Request.Context(), req.Email, req.Password, model.Role(req.Role))
		if err != nil {
			writeServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

// Login checks credentials and returns a session-bound bearer token.
func Login(users *service.UserService, resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		token, err := resolver.Login(c.Request.Context(), user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// Logout revokes the session behind the presented token.
func Logout(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))

		if err := resolver.Logout(c.Request.Context(), bearer); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	}
}

// Me returns the resolved principal for the presented token.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.JSON(http.StatusOK, principal)
	}
}
