package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jasonamaral/mba.modulo4-sub001/api/health"
	"github.com/jasonamaral/mba.modulo4-sub001/api/metrics"
	"github.com/jasonamaral/mba.modulo4-sub001/api/middleware"
	"github.com/jasonamaral/mba.modulo4-sub001/api/student"
	"github.com/jasonamaral/mba.modulo4-sub001/config"
)

// Router route configuration
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	healthController  *health.Controller
	studentController *student.Controller
}

// NewRouter creates the route configuration
func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	studentController *student.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Middleware order matters: request ID first so every later stage can log it.
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))
	engine.Use(metrics.Middleware())

	return &Router{
		engine:            engine,
		config:            cfg,
		healthController:  healthController,
		studentController: studentController,
	}
}

// SetupRoutes sets up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.studentController.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/metrics", metrics.Handler())

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
			"metrics": "/metrics",
		})
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
