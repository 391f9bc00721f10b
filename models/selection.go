package models

import (
	"fmt"
	"slices"
	"strings"
)

// Any is the wildcard option; it is always first in every option list.
const Any = "Any"

type Dimension string

const (
	DimensionCuisine      Dimension = "cuisine"
	DimensionPrice        Dimension = "price"
	DimensionNeighborhood Dimension = "neighborhood"
)

// ParseDimension accepts the dimension names used in routes.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(strings.ToLower(strings.TrimSpace(s))); d {
	case DimensionCuisine, DimensionPrice, DimensionNeighborhood:
		return d, nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

var Cuisines = []string{
	Any, "Italian", "Chinese", "Japanese", "American", "Mexican", "Indian", "Thai",
	"French", "Spanish", "Turkish", "Vietnamese", "Middle Eastern", "Greek", "Korean",
	"Brazilian", "Argentinian", "Ethiopian/East African", "German", "Portuguese", "Peruvian",
}

var Prices = []string{Any, "$", "$$", "$$$", "$$$$"}

// Selection is the preference tuple.
type Selection struct {
	Cuisine      string `json:"cuisine"`
	Price        string `json:"price"`
	Neighborhood string `json:"neighborhood"`
}

func (s Selection) Get(dim Dimension) string {
	switch dim {
	case DimensionCuisine:
		return s.Cuisine
	case DimensionPrice:
		return s.Price
	default:
		return s.Neighborhood
	}
}

func (s *Selection) Set(dim Dimension, value string) {
	switch dim {
	case DimensionCuisine:
		s.Cuisine = value
	case DimensionPrice:
		s.Price = value
	default:
		s.Neighborhood = value
	}
}

// Locks mirrors the persisted lockedSlots object.
type Locks struct {
	Cuisine      bool `json:"cuisine"`
	Price        bool `json:"price"`
	Neighborhood bool `json:"neighborhood"`
}

func (l Locks) Get(dim Dimension) bool {
	switch dim {
	case DimensionCuisine:
		return l.Cuisine
	case DimensionPrice:
		return l.Price
	default:
		return l.Neighborhood
	}
}

func (l *Locks) Toggle(dim Dimension) {
	switch dim {
	case DimensionCuisine:
		l.Cuisine = !l.Cuisine
	case DimensionPrice:
		l.Price = !l.Price
	default:
		l.Neighborhood = !l.Neighborhood
	}
}

type Options struct {
	Cuisines              []string `json:"cuisines"`
	Prices                []string `json:"prices"`
	Neighborhoods         []string `json:"neighborhoods"`
	FilteredNeighborhoods []string `json:"filtered_neighborhoods"`
}

// Snapshot is the observable state of one session.
type Snapshot struct {
	City                  string       `json:"city"`
	LastConfirmedCity     string       `json:"last_confirmed_city"`
	UserCoordinates       *GeoLocation `json:"user_coordinates"`
	Selection             Selection    `json:"selection"`
	Locks                 Locks        `json:"locks"`
	Options               Options      `json:"options"`
	NeighborhoodFilter    string       `json:"neighborhood_filter"`
	FilterActive          bool         `json:"filter_active"`
	Searching             bool         `json:"searching"`
	FetchingNeighborhoods bool         `json:"fetching_neighborhoods"`
	FetchingLocation      bool         `json:"fetching_location"`
	LoadingMessage        string       `json:"loading_message"`
	Restaurant            *Restaurant  `json:"restaurant"`
	DetailRestaurant      *Restaurant  `json:"detail_restaurant"`
	Error                 string       `json:"error,omitempty"`
}

// NormalizeOptions dedupes names, drops blanks and puts the sentinel first.
func NormalizeOptions(names []string) []string {
	out := []string{Any}
	seen := map[string]bool{Any: true}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func Contains(options []string, value string) bool {
	return slices.Contains(options, value)
}

// InsertAfterSentinel places value at index 1 unless it is already present.
func InsertAfterSentinel(options []string, value string) []string {
	if value == "" || Contains(options, value) {
		return options
	}
	if len(options) == 0 {
		return []string{Any, value}
	}
	out := make([]string, 0, len(options)+1)
	out = append(out, options[0], value)
	return append(out, options[1:]...)
}
