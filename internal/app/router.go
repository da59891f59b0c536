package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"dispatch/internal/handler"
	"dispatch/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	EstimateHandler *handler.EstimateHandler
	TripHandler     *handler.TripHandler
	DriverHandler   *handler.DriverHandler
	WSHandler       *handler.WSHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Price estimates.
		v1.POST("/estimates", deps.EstimateHandler.Estimate)

		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.Create)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.POST("/:id/transition", deps.TripHandler.Transition)
		}

		// Driver presence routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/nearby", deps.DriverHandler.Nearby)
			drivers.POST("/:id/availability", deps.DriverHandler.SetAvailability)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
		}

		// Realtime channels.
		ws := v1.Group("/ws")
		{
			ws.GET("/dispatch", deps.WSHandler.Dispatch)
			ws.GET("/drivers", deps.WSHandler.Drivers)
		}
	}

	return router
}
