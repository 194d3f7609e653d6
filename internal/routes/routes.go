package routes

import (
	"net/http"

	"url-shortener-api/internal/handlers"
	"url-shortener-api/internal/middleware"
	"url-shortener-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// Deps are the components the router dispatches to.
type Deps struct {
	Links   *handlers.LinkHandler
	Hub     *realtime.Hub
	Metrics http.Handler
}

func SetupRoutes(deps Deps) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(middleware.CORS(), middleware.RequestID())

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "URL Shortener API is running",
		})
	})

	if deps.Metrics != nil {
		ginRouter.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// Short link redirect
	ginRouter.GET("/s/:token", deps.Links.Redirect)

	api := ginRouter.Group("/api")
	{
		api.POST("/shorten", deps.Links.Shorten)
		api.GET("/recover/:token", deps.Links.Recover)
		api.GET("/cache/size", deps.Links.CacheSize)
		if deps.Hub != nil {
			api.GET("/events", handlers.EventsHandler(deps.Hub))
		}
	}

	return ginRouter
}
