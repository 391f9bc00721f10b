package services

import (
	"RestaurantRoulette/logging"
	"RestaurantRoulette/models"
	"RestaurantRoulette/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mmcloughlin/geohash"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	maxNeighborhoods = 20
	// neighborhoodTimeout bounds the shared fetch, which outlives any single caller.
	neighborhoodTimeout = 60 * time.Second
)

// Suggester is what the fallback engine and the selection manager need from upstream.
type Suggester interface {
	ResolveLocation(ctx context.Context, latitude, longitude float64) (*models.LocationDetails, error)
	ListNeighborhoods(ctx context.Context, city string) ([]string, error)
	SuggestRestaurant(ctx context.Context, cuisine, price, neighborhood, city string) (*models.Restaurant, error)
}

type SuggestionService struct {
	Completer Completer
	cache     *cache.Cache
	group     singleflight.Group
	validate  *validator.Validate
}

// NewSuggestionService wires the three upstream operations onto one Completer.
func NewSuggestionService(completer Completer) *SuggestionService {
	return &SuggestionService{
		Completer: completer,
		cache:     cache.New(30*time.Minute, time.Hour),
		validate:  validator.New(),
	}
}

func (s *SuggestionService) ResolveLocation(ctx context.Context, latitude, longitude float64) (*models.LocationDetails, error) {
	cacheKey := "location:" + geohash.EncodeWithPrecision(latitude, longitude, 7)
	if cached, found := s.cache.Get(cacheKey); found {
		details := cached.(models.LocationDetails)
		return &details, nil
	}

	text, err := s.Completer.Complete(ctx, locationPrompt(latitude, longitude), 1000)
	if err != nil {
		return nil, wrapUpstream("Failed to get location details", err)
	}

	var details models.LocationDetails
	if err := ParseJSON("location details", text, &details); err != nil {
		logging.Error().Str("text", text).Msg("Failed to parse location JSON")
		return nil, err
	}
	if strings.TrimSpace(details.City) == "" {
		return nil, &utils.MalformedResponseError{Op: "location details", Text: text, Err: errors.New("missing city")}
	}

	s.cache.Set(cacheKey, details, cache.DefaultExpiration)
	return &details, nil
}

func (s *SuggestionService) ListNeighborhoods(ctx context.Context, city string) ([]string, error) {
	cacheKey := "neighborhoods:" + strings.ToLower(strings.TrimSpace(city))
	if cached, found := s.cache.Get(cacheKey); found {
		return append([]string(nil), cached.([]string)...), nil
	}

	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), neighborhoodTimeout)
		defer cancel()

		text, err := s.Completer.Complete(callCtx, neighborhoodsPrompt(city), 1000)
		if err != nil {
			return nil, wrapUpstream("Failed to fetch neighborhoods", err)
		}

		var result struct {
			Neighborhoods []string `json:"neighborhoods"`
		}
		if err := ParseJSON("neighborhoods", text, &result); err != nil {
			logging.Error().Str("text", text).Msg("Failed to parse neighborhoods JSON")
			return nil, err
		}

		names := make([]string, 0, len(result.Neighborhoods))
		for _, n := range result.Neighborhoods {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) > maxNeighborhoods {
			names = names[:maxNeighborhoods]
		}
		s.cache.Set(cacheKey, names, cache.DefaultExpiration)
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), nil
}

func (s *SuggestionService) SuggestRestaurant(ctx context.Context, cuisine, price, neighborhood, city string) (*models.Restaurant, error) {
	text, err := s.Completer.Complete(ctx, restaurantPrompt(cuisine, price, neighborhood, city), 2000)
	if err != nil {
		return nil, wrapUpstream("Failed to get restaurant suggestion", err)
	}

	var restaurant models.Restaurant
	if err := ParseJSON("restaurant data", text, &restaurant); err != nil {
		logging.Error().Str("text", text).Msg("Failed to parse restaurant JSON")
		return nil, err
	}
	if restaurant.Name == models.NoRestaurantFound {
		return nil, utils.ErrNoMatchFound
	}
	if err := s.validate.Struct(restaurant); err != nil {
		return nil, &utils.MalformedResponseError{Op: "restaurant data", Text: text, Err: err}
	}
	if restaurant.ImageURLs == nil {
		restaurant.ImageURLs = []string{}
	}
	restaurant.FallbackNote = ""
	return &restaurant, nil
}

// wrapUpstream keeps the error kind and prefixes the user facing operation name.
// An unexpected envelope surfaces as its fixed message only.
func wrapUpstream(op string, err error) error {
	var upstream *utils.UpstreamError
	if errors.As(err, &upstream) {
		return &utils.UpstreamError{Op: op, StatusCode: upstream.StatusCode, Err: upstream.Err}
	}
	if errors.Is(err, utils.ErrUnexpectedResponseShape) {
		return utils.ErrUnexpectedResponseShape
	}
	return fmt.Errorf("%s: %w", op, err)
}
