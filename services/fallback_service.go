package services

import (
	"RestaurantRoulette/logging"
	"RestaurantRoulette/models"
	"RestaurantRoulette/utils"
	"context"
	"errors"
	"strconv"
)

// Relaxation notes shown next to a result that did not come from the exact request.
const (
	NoteAnyPrice        = "We couldn't find a perfect match, so we searched for any price."
	NoteAnyCuisine      = "We couldn't find a match, so we searched for any cuisine."
	NoteAnyNeighborhood = "We couldn't find a match, so we searched in any neighborhood."
)

type Attempt struct {
	Cuisine      string
	Price        string
	Neighborhood string
	Note         string
}

// Attempts lists the relaxation steps in the order they are tried. The order is fixed and
// does not look at which dimensions were already "Any".
func Attempts(cuisine, price, neighborhood string) []Attempt {
	return []Attempt{
		{Cuisine: cuisine, Price: price, Neighborhood: neighborhood},
		{Cuisine: cuisine, Price: models.Any, Neighborhood: neighborhood, Note: NoteAnyPrice},
		{Cuisine: models.Any, Price: price, Neighborhood: neighborhood, Note: NoteAnyCuisine},
		{Cuisine: cuisine, Price: price, Neighborhood: models.Any, Note: NoteAnyNeighborhood},
	}
}

// AttemptObserver is told about each attempt right before it starts.
type AttemptObserver func(index int, attempt Attempt)

type FallbackService struct {
	Suggester Suggester
}

func NewFallbackService(suggester Suggester) *FallbackService {
	return &FallbackService{Suggester: suggester}
}

// FindRestaurant walks the attempts one after another until one returns a restaurant.
// NoMatchFound moves on to the next attempt; every other error stops the search.
func (s *FallbackService) FindRestaurant(ctx context.Context, cuisine, price, neighborhood, city string, observe AttemptObserver) (*models.Restaurant, error) {
	for i, attempt := range Attempts(cuisine, price, neighborhood) {
		if observe != nil {
			observe(i, attempt)
		}
		label := strconv.Itoa(i + 1)

		restaurant, err := s.Suggester.SuggestRestaurant(ctx, attempt.Cuisine, attempt.Price, attempt.Neighborhood, city)
		if errors.Is(err, utils.ErrNoMatchFound) {
			fallbackAttempts.WithLabelValues(label, "no_match").Inc()
			logging.Debug().Int("attempt", i+1).Str("city", city).Msg("no restaurant found, relaxing constraints")
			continue
		}
		if err != nil {
			fallbackAttempts.WithLabelValues(label, "error").Inc()
			return nil, err
		}

		fallbackAttempts.WithLabelValues(label, "success").Inc()
		restaurant.FallbackNote = attempt.Note
		return restaurant, nil
	}
	return nil, utils.ErrAllFallbacksExhausted
}
