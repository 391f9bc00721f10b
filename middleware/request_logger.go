package middleware

import (
	"RestaurantRoulette/logging"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logging.Info()
		if c.Writer.Status() >= 500 {
			event = logging.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("session_id", c.GetString(SessionKey)).
			Msg("request")
	}
}
