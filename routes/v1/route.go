package route

import (
	"RestaurantRoulette/controllers"
	"RestaurantRoulette/handlers"
	"RestaurantRoulette/middleware"
	"RestaurantRoulette/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes initializes all routes
func RegisterRoutes(router *gin.Engine, sessionService *services.SessionService, tokens *middleware.SessionTokens) {
	sessionHandler := controllers.NewSessionController(sessionService)
	restaurantHandler := controllers.NewRestaurantController(sessionService)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessionService.Count()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register the routes
	v1Routes := router.Group("/v1", middleware.SessionMiddleware(tokens))
	{
		handlers.RegisterSessionRoutes(v1Routes, sessionHandler)
		handlers.RegisterRestaurantRoutes(v1Routes, restaurantHandler)
	}
}
