package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// HealthHandler serves the health probes
type HealthHandler struct{}

// NewHealthHandler creates a health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status":  "ok",
		"message": "pong",
	})
}

// Readiness handles GET /health/ready. The store is in memory, so ready
// is the same as alive.
func (h *HealthHandler) Readiness(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status": "ready",
	})
}

// Liveness handles GET /health/live
func (h *HealthHandler) Liveness(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status": "alive",
	})
}
