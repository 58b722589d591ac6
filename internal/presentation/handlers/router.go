package handlers

import (
	"gitcollab/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler. Auth is nil when GitHub OAuth is not configured.
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	User    *UserHandler
	Project *ProjectHandler
	Request *RequestHandler
}

// Register mounts the /api/v1 routes. Mutating routes are rate limited per user.
func Register(r gin.IRouter, h *Handlers, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	requireAuth := auth.RequireAuth()
	mutating := []gin.HandlerFunc{requireAuth, middleware.RateLimit(limiter)}
	with := func(chain []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, chain...), handler)
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Health)

		authGroup := v1.Group("/auth")
		{
			authGroup.GET("/me", requireAuth, h.User.GetCurrentUser)
			authGroup.PUT("/me", with(mutating, h.User.UpdateCurrentUser)...)
			if h.Auth != nil {
				authGroup.GET("/:provider", h.Auth.BeginAuth)
				authGroup.GET("/:provider/callback", h.Auth.Callback)
			}
		}

		users := v1.Group("/users")
		{
			users.GET("", h.User.ListUsers)
			users.GET("/:username/readme", h.User.GetReadme)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", h.Project.ListProjects)
			projects.POST("", with(mutating, h.Project.CreateProject)...)
			projects.GET("/:id", auth.OptionalAuth(), h.Project.GetProject)
			projects.PUT("/:id", with(mutating, h.Project.UpdateProject)...)
			projects.DELETE("/:id", with(mutating, h.Project.DeleteProject)...)
			projects.POST("/:id/like", with(mutating, h.Project.ToggleLike)...)
			projects.GET("/:id/comments", h.Project.ListComments)
			projects.POST("/:id/comments", with(mutating, h.Project.AddComment)...)
			projects.GET("/:id/requests", requireAuth, h.Request.ListProjectPending)
			projects.POST("/:id/requests", with(mutating, h.Request.Join)...)
		}

		requests := v1.Group("/requests")
		{
			requests.GET("/pending", requireAuth, h.Request.ListPending)
			requests.GET("/mine", requireAuth, h.Request.ListMine)
			requests.POST("/decision", with(mutating, h.Request.Decide)...)
		}
	}
}
