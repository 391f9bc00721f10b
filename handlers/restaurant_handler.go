package handlers

import (
	"RestaurantRoulette/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRestaurantRoutes(router *gin.RouterGroup, restaurantController *controllers.RestaurantController) {
	restaurantGroup := router.Group("/session/restaurant")
	{
		restaurantGroup.GET("", restaurantController.GetRestaurant)

		restaurantGroup.POST("/detail", restaurantController.OpenDetail)
		restaurantGroup.DELETE("/detail", restaurantController.CloseDetail)
	}
}
