package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/middleware"
)

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(log *logger.Logger, corsOrigins []string, health *HealthHandler, calculations *CalculationHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.UserKey())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(corsOrigins))

	router.GET("/health", health.Health)
	router.GET("/health/ready", health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", health.Info)
		v1.GET("/catalog", calculations.Catalog)
		v1.POST("/calculations", calculations.Create)
		v1.GET("/calculations", calculations.List)
		v1.GET("/calculations/:id", calculations.Get)
	}

	return router
}
