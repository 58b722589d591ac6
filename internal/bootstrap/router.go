package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"gitcollab/internal/config"
	"gitcollab/internal/middleware"
	"gitcollab/internal/presentation/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterDeps are what the HTTP layer needs besides configuration
type RouterDeps struct {
	Services *Services
	Auth     *middleware.AuthMiddleware
	Limiter  *middleware.RateLimiter
	DB       handlers.Pinger
	Strategy string
	Logger   *slog.Logger
}

// NewRouter builds the gin engine with logging, CORS, recovery, swagger and the API routes
func NewRouter(cfg *config.Config, d RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(sloggin.NewWithConfig(d.Logger, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := &handlers.Handlers{
		Health:  handlers.NewHealthHandler(d.DB, d.Strategy),
		User:    handlers.NewUserHandler(d.Services.Users, d.Services.Profiles),
		Project: handlers.NewProjectHandler(d.Services.Projects),
		Request: handlers.NewRequestHandler(d.Services.Requests, d.Services.Invitations),
	}
	if cfg.OAuthEnabled() {
		handlers.ConfigureOAuth(cfg.Auth)
		h.Auth = handlers.NewAuthHandler(d.Services.Users, d.Auth)
	}

	handlers.Register(router, h, d.Auth, d.Limiter)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
