package services

import (
	"RestaurantRoulette/models"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Persisted keys, one JSON value each.
const (
	KeyLocation            = "restaurantRoulette:location"
	KeyCuisine             = "restaurantRoulette:cuisine"
	KeyPrice               = "restaurantRoulette:price"
	KeyNeighborhood        = "restaurantRoulette:neighborhood"
	KeyLockedSlots         = "restaurantRoulette:lockedSlots"
	KeyUserCoords          = "restaurantRoulette:userCoords"
	KeyNeighborhoodOptions = "restaurantRoulette:neighborhoodOptions"
)

// PersistedState is the part of a session that survives reloads.
type PersistedState struct {
	City                string
	Cuisine             string
	Price               string
	Neighborhood        string
	Locks               models.Locks
	UserCoordinates     *models.GeoLocation
	NeighborhoodOptions []string
}

func DefaultPersistedState() PersistedState {
	return PersistedState{
		City:                "",
		Cuisine:             models.Any,
		Price:               models.Any,
		Neighborhood:        models.Any,
		NeighborhoodOptions: []string{models.Any},
	}
}

type PersistenceService struct {
	Store  KeyValueStore
	logger zerolog.Logger

	mu      sync.Mutex
	written map[string]string
}

func NewPersistenceService(store KeyValueStore, logger zerolog.Logger) *PersistenceService {
	return &PersistenceService{Store: store, logger: logger, written: make(map[string]string)}
}

// Load reads every key independently. A missing, unreadable or corrupt key keeps its
// default and never affects the others.
func (p *PersistenceService) Load(ctx context.Context) PersistedState {
	state := DefaultPersistedState()

	p.read(ctx, KeyLocation, func(raw []byte) error {
		return json.Unmarshal(raw, &state.City)
	})
	p.read(ctx, KeyCuisine, func(raw []byte) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v == "" {
			return fmt.Errorf("empty cuisine")
		}
		state.Cuisine = v
		return nil
	})
	p.read(ctx, KeyPrice, func(raw []byte) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if !models.Contains(models.Prices, v) {
			return fmt.Errorf("unknown price tier %q", v)
		}
		state.Price = v
		return nil
	})
	p.read(ctx, KeyNeighborhood, func(raw []byte) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v == "" {
			return fmt.Errorf("empty neighborhood")
		}
		state.Neighborhood = v
		return nil
	})
	p.read(ctx, KeyLockedSlots, func(raw []byte) error {
		var v models.Locks
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		state.Locks = v
		return nil
	})
	p.read(ctx, KeyUserCoords, func(raw []byte) error {
		var v *models.GeoLocation
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		state.UserCoordinates = v
		return nil
	})
	p.read(ctx, KeyNeighborhoodOptions, func(raw []byte) error {
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		state.NeighborhoodOptions = models.NormalizeOptions(v)
		return nil
	})

	return state
}

func (p *PersistenceService) read(ctx context.Context, key string, decode func(raw []byte) error) {
	raw, ok, err := p.Store.Get(ctx, key)
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Error reading stored key, using default")
		return
	}
	if !ok {
		return
	}
	if err := decode([]byte(raw)); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Error parsing stored key, using default")
		return
	}

	p.mu.Lock()
	p.written[key] = raw
	p.mu.Unlock()
}

// Save writes the keys whose encoded value changed since the last write.
func (p *PersistenceService) Save(ctx context.Context, state PersistedState) error {
	values := map[string]interface{}{
		KeyLocation:            state.City,
		KeyCuisine:             state.Cuisine,
		KeyPrice:               state.Price,
		KeyNeighborhood:        state.Neighborhood,
		KeyLockedSlots:         state.Locks,
		KeyUserCoords:          state.UserCoordinates,
		KeyNeighborhoodOptions: state.NeighborhoodOptions,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for key, value := range values {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if prev, ok := p.written[key]; ok && prev == string(encoded) {
			continue
		}
		if err := p.Store.Set(ctx, key, string(encoded)); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
		p.written[key] = string(encoded)
	}
	return nil
}

// Clear drops the whole session key space.
func (p *PersistenceService) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = make(map[string]string)
	return p.Store.Clear(ctx)
}
