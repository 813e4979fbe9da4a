package httpserver

import (
	"net/http"

	"github.com/casedesk/casedesk/internal/auth"
	"github.com/casedesk/casedesk/internal/http/handlers"
	"github.com/casedesk/casedesk/internal/model"
	"github.com/casedesk/casedesk/internal/service"
	"github.com/gin-gonic/gin"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Users    *service.UserService
	Cases    *service.CaseService
	Grants   *service.GrantService
	Requests *service.AccessRequestService
	Resolver *auth.Resolver
	Guard    *auth.Guard
}

func NewRouter(env string, s Services) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes.
	r.POST("/api/v1/auth/register", handlers.Register(s.Users))
	r.POST("/api/v1/auth/login", handlers.Login(s.Users, s.Resolver))
	r.POST("/api/v1/auth/logout", handlers.Logout(s.Resolver))

	api := r.Group("/api/v1", s.Guard.RequireAuth())
	{
		api.GET("/me", handlers.Me())

		// Cases. Reads go through the access guard, writes through the
		// ownership guard; listing is scoped inside the service.
		api.POST("/cases", s.Guard.RequireRole(model.RoleClient), handlers.CreateCase(s.Cases))
		api.GET("/cases", handlers.ListCases(s.Cases))
		api.GET("/cases/:id", s.Guard.RequireCaseAccess("id"), handlers.GetCase(s.Cases))
		api.PATCH("/cases/:id", s.Guard.RequireCaseOwnership("id"), handlers.UpdateCase(s.Cases))

		// Grants. Direct grant/revoke is administrative; the owner may
		// inspect who holds access.
		api.GET("/cases/:id/grants", s.Guard.RequireCaseOwnership("id"), handlers.ListGrants(s.Grants))
		api.POST("/cases/:id/grants", s.Guard.RequireRole(model.RoleAdmin), handlers.GrantAccess(s.Grants))
		api.DELETE("/cases/:id/grants/:lawyerId", s.Guard.RequireRole(model.RoleAdmin), handlers.RevokeAccess(s.Grants))

		// Access requests. Review authorization happens in the service
		// against the request's own case, not a route parameter.
		api.POST("/requests", s.Guard.RequireRole(model.RoleLawyer), handlers.SubmitRequest(s.Requests))
		api.GET("/requests/mine", s.Guard.RequireRole(model.RoleLawyer), handlers.MyRequests(s.Requests))
		api.GET("/cases/:id/requests", s.Guard.RequireCaseOwnership("id"), handlers.PendingRequests(s.Requests))
		api.POST("/requests/:id/review", handlers.ReviewRequest(s.Requests))

		// Account administration.
		api.POST("/users/:id/deactivate", s.Guard.RequireRole(model.RoleAdmin), handlers.DeactivateUser(s.Users))
		api.POST("/users/:id/activate", s.Guard.RequireRole(model.RoleAdmin), handlers.ActivateUser(s.Users))
	}

	return r
}
