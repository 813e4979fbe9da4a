package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// PrincipalResolver resolves bearer credentials into a principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, bearer string) (model.Principal, error)
}

// AccessChecker is the slice of the authorization engine the guards use.
type AccessChecker interface {
	CanAccess(ctx context.Context, p model.Principal, caseID int64) bool
	IsOwner(ctx context.Context, p model.Principal, caseID int64) bool
}

// Guard wraps protected routes. Every guard resolves the principal, asks
// the authorization engine, and translates the outcome into 401/403. A
// denial is always 403, never 404: the response must not reveal whether
// the case id exists. Guards are read-only and safe to retry.
type Guard struct {
	resolver PrincipalResolver
	engine   AccessChecker
}

func NewGuard(resolver PrincipalResolver, engine AccessChecker) *Guard {
	return &Guard{
		resolver: resolver,
		engine:   engine,
	}
}

// RequireAuth resolves the principal and stores it in the gin context.
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := g.resolver.Resolve(c.Request.Context(), bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole passes only principals whose role is in the given set.
func (g *Guard) RequireRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if _, ok := allowed[principal.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// RequireCaseAccess passes only principals that may access the case named
// by the route parameter.
func (g *Guard) RequireCaseAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, caseID, ok := g.principalAndCase(c, param)
		if !ok {
			return
		}

		if !g.engine.CanAccess(c.Request.Context(), principal, caseID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// RequireCaseOwnership passes only the case's owner or an admin.
func (g *Guard) RequireCaseOwnership(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, caseID, ok := g.principalAndCase(c, param)
		if !ok {
			return
		}

		if !g.engine.IsOwner(c.Request.Context(), principal, caseID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

func (g *Guard) principalAndCase(c *gin.Context, param string) (model.Principal, int64, bool) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return model.Principal{}, 0, false
	}

	caseID, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		// A malformed id can't reference any case; same answer as denied.
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return model.Principal{}, 0, false
	}

	return principal, caseID, true
}

// PrincipalFrom returns the principal stored by RequireAuth.
func PrincipalFrom(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}

	principal, ok := value.(model.Principal)
	return principal, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	return strings.TrimSpace(token)
}
