package middleware

import (
	"RestaurantRoulette/logging"
	"RestaurantRoulette/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware Middleware untuk menangani error secara global
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := utils.StatusFor(err)

		if status >= http.StatusInternalServerError {
			logging.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		}
		if status == http.StatusInternalServerError {
			utils.ErrorResponse(c, status, "Internal Server Error")
			return
		}
		utils.ErrorResponse(c, status, err.Error())
	}
}
