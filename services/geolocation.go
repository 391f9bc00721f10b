package services

import (
	"RestaurantRoulette/models"
	"RestaurantRoulette/utils"
	"context"
	"fmt"
)

// Reasons a browser reports when it could not produce a position.
const (
	GeolocationDenied      = "denied"
	GeolocationUnsupported = "unsupported"
)

// ReportedPosition is a position the client already resolved, or the reason it could not.
type ReportedPosition struct {
	Latitude  float64
	Longitude float64
	Failure   string
}

func (p ReportedPosition) CurrentPosition(_ context.Context) (models.GeoLocation, error) {
	switch p.Failure {
	case "":
		return models.GeoLocation{Latitude: p.Latitude, Longitude: p.Longitude}, nil
	case GeolocationUnsupported:
		return models.GeoLocation{}, utils.ErrGeolocationUnsupported
	case GeolocationDenied:
		return models.GeoLocation{}, utils.ErrGeolocationDenied
	}
	return models.GeoLocation{}, fmt.Errorf("%w: %s", utils.ErrGeolocationDenied, p.Failure)
}
