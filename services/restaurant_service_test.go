package services

import (
	"RestaurantRoulette/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "0 m", FormatDistance(0))
	assert.Equal(t, "250 m", FormatDistance(0.2504))
	assert.Equal(t, "999 m", FormatDistance(0.999))
	assert.Equal(t, "1.0 km", FormatDistance(1))
	assert.Equal(t, "12.3 km", FormatDistance(12.34))
}

func TestHaversine(t *testing.T) {
	// Austin to Dallas is roughly 290 km
	d := haversine(30.2672, -97.7431, 32.7767, -96.7970)
	assert.InDelta(t, 292, d, 5)
	assert.Zero(t, haversine(10, 10, 10, 10))
}

func TestDirectionsURL(t *testing.T) {
	addr := "1704 E Cesar Chavez St, Austin"
	assert.Equal(t, "#", DirectionsURL("  ", "iPhone"))
	assert.Equal(t, "http://maps.apple.com/?daddr=1704+E+Cesar+Chavez+St%2C+Austin",
		DirectionsURL(addr, "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.Equal(t, "http://maps.apple.com/?daddr=1704+E+Cesar+Chavez+St%2C+Austin",
		DirectionsURL(addr, "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)"))
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=1704+E+Cesar+Chavez+St%2C+Austin",
		DirectionsURL(addr, "Mozilla/5.0 (X11; Linux x86_64)"))
}

func TestMapEmbedURL(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/maps?q=Main+St&t=&z=15&ie=UTF8&iwloc=&output=embed", MapEmbedURL("Main St"))
}

func TestBuildView(t *testing.T) {
	svc := NewRestaurantService()
	r := models.Restaurant{Name: "A", Address: "Main St", Latitude: 30.2672, Longitude: -97.7431}

	view := svc.BuildView(r, nil, "")
	assert.Empty(t, view.Distance)
	assert.Equal(t, "A", view.Restaurant.Name)
	assert.Contains(t, view.DirectionsURL, "google.com")

	view = svc.BuildView(r, &models.GeoLocation{Latitude: 30.2672, Longitude: -97.7431}, "")
	assert.Equal(t, "0 m", view.Distance)
}
