package services

import (
	"RestaurantRoulette/models"
	"RestaurantRoulette/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Messages surfaced to the UI.
const (
	MessageShaking            = "Shaking..."
	MessageFindingAlternative = "Finding alternatives..."
	MessageNoRestaurant       = "We tried our best but couldn't find a restaurant. Please try a different spin!"
	MessageNeighborhoodsError = "Could not fetch neighborhoods. Please check the city name or try again."
	MessageGeoUnsupported     = "Geolocation is not supported by your browser."
	MessageGeoDenied          = "Unable to retrieve your location. Please grant permission or enter a city manually."
)

// GeolocationProvider supplies the user's position once.
type GeolocationProvider interface {
	CurrentPosition(ctx context.Context) (models.GeoLocation, error)
}

type SelectionConfig struct {
	ConfirmDebounce   time.Duration
	BackgroundTimeout time.Duration
}

// SelectionService owns the state of one session. Every mutation happens under mu, which
// is released before any upstream call or store write. The search and location flags are
// checked under mu and act as single-acquire guards. A neighborhood refresh instead
// supersedes the one in flight.
type SelectionService struct {
	suggester   Suggester
	fallback    *FallbackService
	persistence *PersistenceService
	logger      zerolog.Logger
	config      SelectionConfig

	mu                    sync.Mutex
	city                  string
	lastConfirmed         string
	coords                *models.GeoLocation
	selection             models.Selection
	locks                 models.Locks
	cuisineOptions        []string
	neighborhoodOptions   []string
	filter                string
	filterActive          bool
	searching             bool
	fetchingNeighborhoods bool
	fetchingLocation      bool
	fetchGen              uint64
	loadingMessage        string
	restaurant            *models.Restaurant
	detail                *models.Restaurant
	errMsg                string

	debounce    *time.Timer
	subscribers map[int]chan models.Snapshot
	nextSub     int
	closed      bool

	// pending is the state recorded by the last change, written once mu is released.
	pending   *PersistedState
	seq       uint64
	persistMu sync.Mutex
	savedSeq  uint64
}

func NewSelectionService(suggester Suggester, persistence *PersistenceService, logger zerolog.Logger, config SelectionConfig) *SelectionService {
	if config.BackgroundTimeout <= 0 {
		config.BackgroundTimeout = time.Minute
	}
	return &SelectionService{
		suggester:           suggester,
		fallback:            NewFallbackService(suggester),
		persistence:         persistence,
		logger:              logger,
		config:              config,
		selection:           models.Selection{Cuisine: models.Any, Price: models.Any, Neighborhood: models.Any},
		cuisineOptions:      append([]string(nil), models.Cuisines...),
		neighborhoodOptions: []string{models.Any},
		subscribers:         make(map[int]chan models.Snapshot),
	}
}

// Restore loads the persisted state. When a city is known but no neighborhoods are, a
// neighborhood fetch is started in the background.
func (s *SelectionService) Restore(ctx context.Context) {
	if s.persistence == nil {
		return
	}
	state := s.persistence.Load(ctx)

	s.mu.Lock()
	s.city = state.City
	s.lastConfirmed = strings.TrimSpace(state.City)
	s.coords = state.UserCoordinates
	s.locks = state.Locks
	s.neighborhoodOptions = models.NormalizeOptions(state.NeighborhoodOptions)
	s.selection = models.Selection{Cuisine: state.Cuisine, Price: state.Price, Neighborhood: state.Neighborhood}
	s.cuisineOptions = models.InsertAfterSentinel(s.cuisineOptions, state.Cuisine)
	s.neighborhoodOptions = models.InsertAfterSentinel(s.neighborhoodOptions, state.Neighborhood)
	city := strings.TrimSpace(s.city)
	needsNeighborhoods := city != "" && len(s.neighborhoodOptions) <= 1
	s.notifyLocked()
	s.mu.Unlock()

	if needsNeighborhoods {
		go s.refreshInBackground(city)
	}
}

func (s *SelectionService) refreshInBackground(city string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.BackgroundTimeout)
	defer cancel()
	if err := s.RefreshNeighborhoods(ctx, city, ""); err != nil {
		s.logger.Warn().Err(err).Str("city", city).Msg("background neighborhood refresh failed")
	}
}

// SetCity records an edit of the city input; resolved coordinates no longer apply.
func (s *SelectionService) SetCity(ctx context.Context, city string) {
	s.mu.Lock()
	defer s.unlock(ctx)
	s.city = city
	s.coords = nil
	s.changedLocked()
}

// SetDimension selects value for dim. It is rejected while a search runs, while the
// dimension is locked, or when value is not one of the (filtered) options.
func (s *SelectionService) SetDimension(ctx context.Context, dim models.Dimension, value string) bool {
	s.mu.Lock()
	defer s.unlock(ctx)

	if s.searching || s.locks.Get(dim) {
		return false
	}
	if dim == models.DimensionNeighborhood && s.fetchingNeighborhoods {
		return false
	}
	if !models.Contains(s.optionsLocked(dim), value) {
		return false
	}

	s.selection.Set(dim, value)
	s.changedLocked()
	return true
}

// ToggleLock flips the lock of dim unless a search is in flight.
func (s *SelectionService) ToggleLock(ctx context.Context, dim models.Dimension) bool {
	s.mu.Lock()
	defer s.unlock(ctx)

	if s.searching {
		return false
	}
	s.locks.Toggle(dim)
	s.changedLocked()
	return true
}

// SetNeighborhoodFilter narrows the neighborhood options shown to the user.
func (s *SelectionService) SetNeighborhoodFilter(ctx context.Context, text string, active bool) {
	s.mu.Lock()
	defer s.unlock(ctx)

	s.filter = text
	s.filterActive = active
	s.resetFilteredOutLocked()
	s.changedLocked()
}

func (s *SelectionService) resetFilteredOutLocked() {
	n := s.selection.Neighborhood
	if n != models.Any && !s.locks.Neighborhood && !models.Contains(s.filteredLocked(), n) {
		s.selection.Neighborhood = models.Any
	}
}

// ConfirmLocation schedules a neighborhood fetch after the debounce delay. A later call
// cancels a pending one. Nothing is fetched when the city matches the last confirmed one.
func (s *SelectionService) ConfirmLocation(ctx context.Context, city string) {
	s.mu.Lock()
	defer s.unlock(ctx)

	if s.closed {
		return
	}
	if city != s.city {
		s.city = city
		s.coords = nil
		s.changedLocked()
	}

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.config.ConfirmDebounce, func() {
		trimmed := strings.TrimSpace(city)

		s.mu.Lock()
		unchanged := trimmed == "" || strings.EqualFold(trimmed, s.lastConfirmed) || s.closed
		s.mu.Unlock()
		if unchanged {
			return
		}
		s.refreshInBackground(trimmed)
	})
}

// RefreshNeighborhoods replaces the neighborhood options with the upstream list for city.
// preferred, when given, is kept in the list and selected unless the dimension is locked.
func (s *SelectionService) RefreshNeighborhoods(ctx context.Context, city, preferred string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.fetchingNeighborhoods = true
	s.errMsg = ""
	s.restaurant = nil
	s.detail = nil
	s.filter = ""
	s.filterActive = false
	if !s.locks.Neighborhood {
		s.neighborhoodOptions = []string{models.Any}
		s.selection.Neighborhood = models.Any
	}
	s.changedLocked()
	s.unlock(ctx)

	names, err := s.suggester.ListNeighborhoods(ctx, city)

	s.mu.Lock()
	defer s.unlock(ctx)
	if gen != s.fetchGen {
		neighborhoodFetches.WithLabelValues("superseded").Inc()
		s.logger.Debug().Str("city", city).Msg("neighborhood fetch superseded, dropping result")
		return nil
	}
	s.fetchingNeighborhoods = false

	if err != nil {
		neighborhoodFetches.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("city", city).Msg("Could not fetch neighborhoods")
		s.errMsg = MessageNeighborhoodsError
		// a locked neighborhood stays selectable even though the list falls back to "Any"
		s.neighborhoodOptions = s.keepLockedNeighborhood([]string{models.Any})
		s.lastConfirmed = ""
		s.changedLocked()
		return err
	}

	neighborhoodFetches.WithLabelValues("success").Inc()
	options := models.NormalizeOptions(names)
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		options = models.InsertAfterSentinel(options, preferred)
		if !s.locks.Neighborhood {
			s.selection.Neighborhood = preferred
		}
	}
	s.neighborhoodOptions = s.keepLockedNeighborhood(options)
	s.lastConfirmed = city
	s.changedLocked()
	return nil
}

// keepLockedNeighborhood makes sure a locked neighborhood stays selectable.
func (s *SelectionService) keepLockedNeighborhood(options []string) []string {
	if s.locks.Neighborhood && s.selection.Neighborhood != models.Any {
		return models.InsertAfterSentinel(options, s.selection.Neighborhood)
	}
	return options
}

// FindMyLocation resolves the user's position into a city and its neighborhoods.
func (s *SelectionService) FindMyLocation(ctx context.Context, provider GeolocationProvider) error {
	s.mu.Lock()
	if provider == nil {
		s.errMsg = MessageGeoUnsupported
		s.changedLocked()
		s.unlock(ctx)
		return utils.ErrGeolocationUnsupported
	}
	if s.fetchingLocation {
		s.mu.Unlock()
		return utils.ErrFetchInProgress
	}
	s.fetchingLocation = true
	s.errMsg = ""
	s.changedLocked()
	s.unlock(ctx)

	defer func() {
		s.mu.Lock()
		s.fetchingLocation = false
		s.changedLocked()
		s.unlock(ctx)
	}()

	position, err := provider.CurrentPosition(ctx)
	if err != nil {
		s.mu.Lock()
		s.coords = nil
		if errors.Is(err, utils.ErrGeolocationUnsupported) {
			s.errMsg = MessageGeoUnsupported
		} else {
			s.errMsg = MessageGeoDenied
		}
		s.changedLocked()
		s.unlock(ctx)
		s.logger.Warn().Err(err).Msg("Geolocation error")
		if errors.Is(err, utils.ErrGeolocationUnsupported) || errors.Is(err, utils.ErrGeolocationDenied) {
			return err
		}
		return fmt.Errorf("%w: %v", utils.ErrGeolocationDenied, err)
	}

	details, err := s.suggester.ResolveLocation(ctx, position.Latitude, position.Longitude)
	if err != nil {
		s.mu.Lock()
		s.coords = nil
		s.errMsg = err.Error()
		s.changedLocked()
		s.unlock(ctx)
		return err
	}

	city := details.DisplayName()
	s.mu.Lock()
	s.city = city
	s.coords = &models.GeoLocation{Latitude: position.Latitude, Longitude: position.Longitude}
	s.changedLocked()
	s.unlock(ctx)

	return s.RefreshNeighborhoods(ctx, city, details.Neighborhood)
}

// RunSearch asks the fallback engine for a restaurant. Unlocked dimensions are searched as
// "Any" and afterwards land on the values of the match; locked ones never change.
func (s *SelectionService) RunSearch(ctx context.Context) (*models.Restaurant, error) {
	s.mu.Lock()
	if s.searching {
		s.mu.Unlock()
		return nil, utils.ErrSearchInProgress
	}
	city := strings.TrimSpace(s.city)
	if city == "" {
		s.errMsg = utils.ErrCityRequired.Error()
		s.changedLocked()
		s.unlock(ctx)
		return nil, utils.ErrCityRequired
	}

	s.searching = true
	s.restaurant = nil
	s.detail = nil
	s.errMsg = ""
	s.loadingMessage = MessageShaking
	s.filterActive = false
	locks := s.locks
	cuisine, price, neighborhood := models.Any, models.Any, models.Any
	if locks.Cuisine {
		cuisine = s.selection.Cuisine
	}
	if locks.Price {
		price = s.selection.Price
	}
	if locks.Neighborhood {
		neighborhood = s.selection.Neighborhood
	}
	s.changedLocked()
	s.unlock(ctx)

	onAttempt := func(_ int, attempt Attempt) {
		if attempt.Note == "" {
			return
		}
		s.mu.Lock()
		s.loadingMessage = MessageFindingAlternative
		s.notifyLocked()
		s.mu.Unlock()
	}
	result, err := s.fallback.FindRestaurant(ctx, cuisine, price, neighborhood, city, onAttempt)

	s.mu.Lock()
	defer s.unlock(ctx)
	s.searching = false
	s.loadingMessage = ""

	if err != nil {
		s.restaurant = nil
		if errors.Is(err, utils.ErrAllFallbacksExhausted) {
			s.errMsg = MessageNoRestaurant
		} else {
			s.errMsg = err.Error()
		}
		s.logger.Warn().Err(err).Str("city", city).Msg("restaurant search failed")
		s.changedLocked()
		return nil, err
	}

	if !locks.Cuisine {
		c := result.Cuisine
		if c == "" {
			c = models.Any
		}
		s.cuisineOptions = models.InsertAfterSentinel(s.cuisineOptions, c)
		s.selection.Cuisine = c
	}
	if !locks.Price {
		if models.Contains(models.Prices, result.Price) {
			s.selection.Price = result.Price
		} else {
			s.selection.Price = models.Any
		}
	}
	if !locks.Neighborhood {
		n := result.Neighborhood
		if n == "" {
			n = models.Any
		}
		s.neighborhoodOptions = models.InsertAfterSentinel(s.neighborhoodOptions, n)
		s.selection.Neighborhood = n
	}

	s.restaurant = result
	s.logger.Info().Str("city", city).Str("restaurant", result.Name).Bool("relaxed", result.FallbackNote != "").Msg("restaurant found")
	s.changedLocked()

	found := *result
	return &found, nil
}

// OpenDetail shows the detail view of the current restaurant.
func (s *SelectionService) OpenDetail(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restaurant == nil {
		return false
	}
	s.detail = s.restaurant
	s.notifyLocked()
	return true
}

func (s *SelectionService) CloseDetail(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = nil
	s.notifyLocked()
}

// Reset clears persisted state and returns the session to its defaults.
func (s *SelectionService) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.searching || s.fetchingNeighborhoods || s.fetchingLocation {
		s.mu.Unlock()
		return utils.ErrSearchInProgress
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}

	s.city, s.lastConfirmed, s.coords = "", "", nil
	s.selection = models.Selection{Cuisine: models.Any, Price: models.Any, Neighborhood: models.Any}
	s.locks = models.Locks{}
	s.cuisineOptions = append([]string(nil), models.Cuisines...)
	s.neighborhoodOptions = []string{models.Any}
	s.filter, s.filterActive = "", false
	s.restaurant, s.detail, s.errMsg, s.loadingMessage = nil, nil, "", ""
	s.notifyLocked()

	s.pending = nil
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	if s.persistence == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if seq <= s.savedSeq {
		return nil
	}
	s.savedSeq = seq
	return s.persistence.Clear(ctx)
}

// Snapshot returns a copy of the observable state.
func (s *SelectionService) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe delivers the latest snapshot after every change. Slow readers only see the
// most recent one.
func (s *SelectionService) Subscribe() (<-chan models.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan models.Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
}

// Close stops a pending confirmation and ends all subscriptions.
func (s *SelectionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *SelectionService) optionsLocked(dim models.Dimension) []string {
	switch dim {
	case models.DimensionCuisine:
		return s.cuisineOptions
	case models.DimensionPrice:
		return models.Prices
	default:
		return s.filteredLocked()
	}
}

func (s *SelectionService) filteredLocked() []string {
	term := strings.ToLower(strings.TrimSpace(s.filter))
	if !s.filterActive || term == "" {
		return append([]string(nil), s.neighborhoodOptions...)
	}
	out := []string{models.Any}
	for _, n := range s.neighborhoodOptions[1:] {
		if strings.Contains(strings.ToLower(n), term) {
			out = append(out, n)
		}
	}
	return out
}

func (s *SelectionService) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		City:              s.city,
		LastConfirmedCity: s.lastConfirmed,
		Selection:         s.selection,
		Locks:             s.locks,
		Options: models.Options{
			Cuisines:              append([]string(nil), s.cuisineOptions...),
			Prices:                append([]string(nil), models.Prices...),
			Neighborhoods:         append([]string(nil), s.neighborhoodOptions...),
			FilteredNeighborhoods: s.filteredLocked(),
		},
		NeighborhoodFilter:    s.filter,
		FilterActive:          s.filterActive,
		Searching:             s.searching,
		FetchingNeighborhoods: s.fetchingNeighborhoods,
		FetchingLocation:      s.fetchingLocation,
		LoadingMessage:        s.loadingMessage,
		Error:                 s.errMsg,
	}
	if s.coords != nil {
		c := *s.coords
		snap.UserCoordinates = &c
	}
	if s.restaurant != nil {
		r := *s.restaurant
		snap.Restaurant = &r
	}
	if s.detail != nil {
		d := *s.detail
		snap.DetailRestaurant = &d
	}
	return snap
}

func (s *SelectionService) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// changedLocked publishes the new state and records the persisted fields for unlock.
func (s *SelectionService) changedLocked() {
	s.notifyLocked()
	if s.persistence == nil {
		return
	}
	state := PersistedState{
		City:                s.city,
		Cuisine:             s.selection.Cuisine,
		Price:               s.selection.Price,
		Neighborhood:        s.selection.Neighborhood,
		Locks:               s.locks,
		NeighborhoodOptions: append([]string(nil), s.neighborhoodOptions...),
	}
	if s.coords != nil {
		c := *s.coords
		state.UserCoordinates = &c
	}
	s.seq++
	s.pending = &state
}

// unlock releases mu, then writes the state recorded by changedLocked. A write that lost
// the race to a newer one is skipped.
func (s *SelectionService) unlock(ctx context.Context) {
	state, seq := s.pending, s.seq
	s.pending = nil
	s.mu.Unlock()
	if state == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if seq <= s.savedSeq {
		return
	}
	s.savedSeq = seq
	if ctx == nil || ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := s.persistence.Save(ctx, *state); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session state")
	}
}
