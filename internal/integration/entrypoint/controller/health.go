// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) bool

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker      HealthChecker
	trackerHealthChecker HealthChecker
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	BatchTracker string `json:"batch_tracker"`
	Timestamp    string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// trackerHealthChecker is nil when batch runs are tracked in memory.
func NewHealthController(dbHealthChecker, trackerHealthChecker HealthChecker) *HealthController {
	return &HealthController{
		dbHealthChecker:      dbHealthChecker,
		trackerHealthChecker: trackerHealthChecker,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:       "ok",
		Database:     "disconnected",
		BatchTracker: "memory",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	statusCode := http.StatusOK
	if h.dbHealthChecker != nil && h.dbHealthChecker(ctx) {
		response.Database = "connected"
	} else {
		response.Status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	if h.trackerHealthChecker != nil {
		response.BatchTracker = "connected"
		if !h.trackerHealthChecker(ctx) {
			response.BatchTracker = "disconnected"
			response.Status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
	}

	c.JSON(statusCode, response)
}
