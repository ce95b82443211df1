package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/interfaces/http/dto"
)

// Check tests one dependency and returns nil when it is usable
type Check func(ctx context.Context) error

// HealthHandler serves the liveness and readiness endpoints
type HealthHandler struct {
	BaseHandler
	database  Check
	readiness map[string]Check
	timeout   time.Duration
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. database backs /health;
// readiness adds further checks, such as redis, to /health/ready.
func NewHealthHandler(database Check, readiness map[string]Check) *HealthHandler {
	return &HealthHandler{
		database:  database,
		readiness: readiness,
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
}

// HealthResponse reports the state of the service and its dependencies
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	h.respond(c, map[string]Check{"database": h.database})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]Check{"database": h.database}
	for name, check := range h.readiness {
		checks[name] = check
	}
	h.respond(c, checks)
}

func (h *HealthHandler) respond(c *gin.Context, checks map[string]Check) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status: "healthy",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
		Checks: make(map[string]string, len(checks)),
	}
	healthy := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = "down"
			healthy = false
			continue
		}
		resp.Checks[name] = "up"
	}

	if !healthy {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeServiceUnavailable, Message: "Service unavailable"},
		})
		return
	}
	h.Success(c, resp)
}
