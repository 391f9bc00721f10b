package models

type GeoLocation struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// LocationDetails is the reply shape of a reverse geocoding completion.
type LocationDetails struct {
	City         string `json:"city"`
	State        string `json:"state"`
	Neighborhood string `json:"neighborhood"`
}

// DisplayName renders the city the way the location input shows it.
func (d LocationDetails) DisplayName() string {
	if d.State == "" {
		return d.City
	}
	return d.City + ", " + d.State
}
