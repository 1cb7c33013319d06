// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                    *gin.Engine
	healthController          *controller.HealthController
	transactionRuleController *controller.TransactionRuleController
	transactionController     *controller.TransactionController
	batchRunController        *controller.BatchRunController
	batchRateLimiter          *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	transactionRuleController *controller.TransactionRuleController,
	transactionController *controller.TransactionController,
	batchRunController *controller.BatchRunController,
	batchRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:          healthController,
		transactionRuleController: transactionRuleController,
		transactionController:     transactionController,
		batchRunController:        batchRunController,
		batchRateLimiter:          batchRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Rule routes
		if r.transactionRuleController != nil {
			rules := v1.Group("/rules")
			{
				rules.GET("", r.transactionRuleController.List)
				rules.POST("", r.transactionRuleController.Create)
				rules.PATCH("/reorder", r.transactionRuleController.Reorder)
				rules.POST("/preview", r.transactionRuleController.Preview)
				rules.GET("/:id", r.transactionRuleController.Get)
				rules.PATCH("/:id", r.transactionRuleController.Update)
				rules.DELETE("/:id", r.transactionRuleController.Delete)

				if r.batchRunController != nil {
					handlers := []gin.HandlerFunc{}
					if r.batchRateLimiter != nil {
						handlers = append(handlers, r.batchRateLimiter.Middleware())
					}
					handlers = append(handlers, r.batchRunController.Start)
					rules.POST("/:id/apply", handlers...)
				}
			}
		}

		// Batch run routes
		if r.batchRunController != nil {
			batchRuns := v1.Group("/batch-runs")
			{
				batchRuns.GET("/:id", r.batchRunController.Status)
				batchRuns.POST("/:id/cancel", r.batchRunController.Cancel)
			}
		}

		// Transaction routes
		if r.transactionController != nil {
			transactions := v1.Group("/transactions")
			{
				transactions.GET("", r.transactionController.List)
				transactions.POST("", r.transactionController.Create)
				transactions.GET("/:id", r.transactionController.Get)
			}
		}
	}
}
