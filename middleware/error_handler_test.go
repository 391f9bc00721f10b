package middleware

import (
	"RestaurantRoulette/utils"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{utils.NewCustomError(http.StatusTeapot, "short and stout"), http.StatusTeapot, "short and stout"},
		{utils.ErrSearchInProgress, http.StatusConflict, "search already in progress"},
		{fmt.Errorf("wrapped: %w", utils.ErrGeolocationDenied), http.StatusBadRequest, "wrapped: geolocation denied"},
		{&utils.UpstreamError{Op: "Failed to fetch neighborhoods", StatusCode: 500}, http.StatusBadGateway, "Failed to fetch neighborhoods: upstream returned status 500"},
		{utils.ErrUnexpectedResponseShape, http.StatusBadGateway, "Unexpected API response format"},
		{utils.ErrAllFallbacksExhausted, http.StatusNotFound, utils.ErrAllFallbacksExhausted.Error()},
		{errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		r := gin.New()
		r.Use(ErrorHandlerMiddleware())
		r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, tt.status, w.Code)
		var body utils.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.message, body.Message)
		assert.Equal(t, tt.status, body.StatusCode)
	}
}
