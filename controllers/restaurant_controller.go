package controllers

import (
	"RestaurantRoulette/middleware"
	"RestaurantRoulette/services"
	"RestaurantRoulette/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	SessionService    *services.SessionService
	RestaurantService *services.RestaurantService
}

func NewRestaurantController(sessionService *services.SessionService) *RestaurantController {
	return &RestaurantController{
		SessionService:    sessionService,
		RestaurantService: services.NewRestaurantService(),
	}
}

func (s *RestaurantController) GetRestaurant(c *gin.Context) {
	snapshot := s.SessionService.Get(c.Request.Context(), c.GetString(middleware.SessionKey)).Snapshot()
	if snapshot.Restaurant == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Restaurant not found")
		return
	}

	view := s.RestaurantService.BuildView(*snapshot.Restaurant, snapshot.UserCoordinates, c.GetHeader("User-Agent"))
	utils.SuccessResponse(c, http.StatusOK, "Restaurant fetched successfully", view)
}

func (s *RestaurantController) OpenDetail(c *gin.Context) {
	manager := s.SessionService.Get(c.Request.Context(), c.GetString(middleware.SessionKey))
	if !manager.OpenDetail(c.Request.Context()) {
		utils.ErrorResponse(c, http.StatusNotFound, "Restaurant not found")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Detail opened", manager.Snapshot())
}

func (s *RestaurantController) CloseDetail(c *gin.Context) {
	manager := s.SessionService.Get(c.Request.Context(), c.GetString(middleware.SessionKey))
	manager.CloseDetail(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "Detail closed", manager.Snapshot())
}
