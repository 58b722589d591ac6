package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db       Pinger
	strategy string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, strategy string) *HealthHandler {
	return &HealthHandler{db: db, strategy: strategy}
}

// Health handles GET /health
// @Summary Health check
// @Description Returns the health status of the service and its database
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status:        "unhealthy",
				Message:       "Database unreachable",
				GrantStrategy: h.strategy,
			})
			return
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:        "healthy",
		Message:       "Service is running",
		GrantStrategy: h.strategy,
	})
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	GrantStrategy string `json:"grant_strategy,omitempty"`
}
