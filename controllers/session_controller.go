package controllers

import (
	"RestaurantRoulette/middleware"
	"RestaurantRoulette/models"
	"RestaurantRoulette/services"
	"RestaurantRoulette/utils"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *services.SessionService
}

func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

type LocationRequest struct {
	City string `json:"city"`
}

type LocateRequest struct {
	Latitude  float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Error     string  `json:"error" binding:"omitempty,oneof=denied unsupported"`
}

type DimensionRequest struct {
	Value string `json:"value" binding:"required"`
}

type FilterRequest struct {
	Query  string `json:"query"`
	Active bool   `json:"active"`
}

func (s *SessionController) session(c *gin.Context) *services.SelectionService {
	return s.SessionService.Get(c.Request.Context(), c.GetString(middleware.SessionKey))
}

func dimensionParam(c *gin.Context) (models.Dimension, bool) {
	dim, err := models.ParseDimension(c.Param("dimension"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid dimension")
		return "", false
	}
	return dim, true
}

func (s *SessionController) GetState(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Session fetched successfully", s.session(c).Snapshot())
}

func (s *SessionController) ResetState(c *gin.Context) {
	if err := s.SessionService.Reset(c.Request.Context(), c.GetString(middleware.SessionKey)); err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Session cleared", s.session(c).Snapshot())
}

// StreamState sends a "state" event for the current snapshot and after every change.
func (s *SessionController) StreamState(c *gin.Context) {
	manager := s.session(c)
	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("state", manager.Snapshot())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case snapshot, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("state", snapshot)
			return true
		}
	})
}

func (s *SessionController) SetCity(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	manager := s.session(c)
	manager.SetCity(c.Request.Context(), req.City)
	utils.SuccessResponse(c, http.StatusOK, "City updated", manager.Snapshot())
}

func (s *SessionController) ConfirmLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	manager := s.session(c)
	manager.ConfirmLocation(c.Request.Context(), req.City)
	utils.SuccessResponse(c, http.StatusAccepted, "Location confirmation scheduled", manager.Snapshot())
}

func (s *SessionController) Locate(c *gin.Context) {
	var req LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	manager := s.session(c)
	position := services.ReportedPosition{Latitude: req.Latitude, Longitude: req.Longitude, Failure: req.Error}
	if err := manager.FindMyLocation(c.Request.Context(), position); err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Location resolved", manager.Snapshot())
}

func (s *SessionController) SetDimension(c *gin.Context) {
	dim, ok := dimensionParam(c)
	if !ok {
		return
	}
	var req DimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	manager := s.session(c)
	if !manager.SetDimension(c.Request.Context(), dim, req.Value) {
		utils.ErrorResponse(c, http.StatusConflict, "Selection cannot be changed right now")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Selection updated", manager.Snapshot())
}

func (s *SessionController) ToggleLock(c *gin.Context) {
	dim, ok := dimensionParam(c)
	if !ok {
		return
	}
	manager := s.session(c)
	if !manager.ToggleLock(c.Request.Context(), dim) {
		_ = c.Error(utils.ErrSearchInProgress)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Lock toggled", manager.Snapshot())
}

func (s *SessionController) SetFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	manager := s.session(c)
	manager.SetNeighborhoodFilter(c.Request.Context(), req.Query, req.Active)
	utils.SuccessResponse(c, http.StatusOK, "Filter updated", manager.Snapshot())
}

func (s *SessionController) RefreshNeighborhoods(c *gin.Context) {
	manager := s.session(c)
	city := manager.Snapshot().City
	if err := manager.RefreshNeighborhoods(c.Request.Context(), city, ""); err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Neighborhoods fetched successfully", manager.Snapshot())
}

func (s *SessionController) Search(c *gin.Context) {
	manager := s.session(c)
	if _, err := manager.RunSearch(c.Request.Context()); err != nil {
		if errors.Is(err, utils.ErrAllFallbacksExhausted) {
			utils.ErrorResponse(c, http.StatusNotFound, services.MessageNoRestaurant)
			return
		}
		_ = c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Restaurant found", manager.Snapshot())
}
