package services

import (
	"RestaurantRoulette/models"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
)

const earthRadiusKm = 6371.0 // Radius of Earth in km

var appleDevice = regexp.MustCompile(`iPhone|iPad|iPod|Macintosh`)

// RestaurantService builds what the card and the detail view show for a restaurant.
type RestaurantService struct{}

func NewRestaurantService() *RestaurantService {
	return &RestaurantService{}
}

// Haversine formula to calculate distance between two lat/lng points
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1 = lat1 * (math.Pi / 180.0)
	lat2 = lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// FormatDistance renders meters below one kilometer and kilometers with one decimal above.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

// DirectionsURL opens Apple Maps on Apple devices and Google Maps everywhere else.
func DirectionsURL(address, userAgent string) string {
	if strings.TrimSpace(address) == "" {
		return "#"
	}
	encoded := url.QueryEscape(address)
	if appleDevice.MatchString(userAgent) {
		return "http://maps.apple.com/?daddr=" + encoded
	}
	return "https://www.google.com/maps/dir/?api=1&destination=" + encoded
}

func MapEmbedURL(address string) string {
	return "https://maps.google.com/maps?q=" + url.QueryEscape(address) + "&t=&z=15&ie=UTF8&iwloc=&output=embed"
}

// BuildView decorates a restaurant with the distance from coords, when known, and map links.
func (s *RestaurantService) BuildView(restaurant models.Restaurant, coords *models.GeoLocation, userAgent string) models.RestaurantView {
	view := models.RestaurantView{
		Restaurant:    restaurant,
		DirectionsURL: DirectionsURL(restaurant.Address, userAgent),
		MapEmbedURL:   MapEmbedURL(restaurant.Address),
	}
	if coords != nil {
		view.Distance = FormatDistance(haversine(coords.Latitude, coords.Longitude, restaurant.Latitude, restaurant.Longitude))
	}
	return view
}
