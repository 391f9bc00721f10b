package models

// NoRestaurantFound is the name the upstream returns when nothing real matches.
const NoRestaurantFound = "NO_RESTAURANT_FOUND"

type Restaurant struct {
	Name         string     `json:"name" validate:"required"`
	Description  string     `json:"description"`
	Address      string     `json:"address"`
	Rating       float64    `json:"rating" validate:"gte=0,lte=5"`
	ImageURLs    []string   `json:"imageUrls"`
	Latitude     float64    `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64    `json:"longitude" validate:"gte=-180,lte=180"`
	Cuisine      string     `json:"cuisine"`
	Price        string     `json:"price"`
	Neighborhood string     `json:"neighborhood"`
	Menu         []MenuItem `json:"menu"`
	FallbackNote string     `json:"fallbackNote,omitempty"`
}

type MenuItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// RestaurantView is what the detail endpoints hand to the UI
type RestaurantView struct {
	Restaurant    Restaurant `json:"restaurant"`
	Distance      string     `json:"distance,omitempty"`
	DirectionsURL string     `json:"directions_url"`
	MapEmbedURL   string     `json:"map_embed_url"`
}
