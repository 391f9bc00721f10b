package handlers

import (
	"RestaurantRoulette/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSessionRoutes(router *gin.RouterGroup, sessionController *controllers.SessionController) {
	sessionGroup := router.Group("/session")
	{
		sessionGroup.GET("", sessionController.GetState)
		sessionGroup.DELETE("", sessionController.ResetState)
		sessionGroup.GET("/events", sessionController.StreamState)

		sessionGroup.PUT("/location", sessionController.SetCity)
		sessionGroup.POST("/location/confirm", sessionController.ConfirmLocation)
		sessionGroup.POST("/location/locate", sessionController.Locate)

		sessionGroup.PUT("/dimensions/:dimension", sessionController.SetDimension)
		sessionGroup.POST("/dimensions/:dimension/lock", sessionController.ToggleLock)

		sessionGroup.PUT("/neighborhoods/filter", sessionController.SetFilter)
		sessionGroup.POST("/neighborhoods/refresh", sessionController.RefreshNeighborhoods)

		sessionGroup.POST("/search", sessionController.Search)
	}
}
