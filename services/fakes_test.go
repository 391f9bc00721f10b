package services

import (
	"RestaurantRoulette/models"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// stubCompleter replies in order; the last reply repeats.
type stubCompleter struct {
	mu      sync.Mutex
	replies []stubReply
	prompts []string
}

type stubReply struct {
	text string
	err  error
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", nil
	}
	r := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return r.text, r.err
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// MockSuggester is a testify mock of Suggester.
type MockSuggester struct {
	mock.Mock
}

func (m *MockSuggester) ResolveLocation(ctx context.Context, latitude, longitude float64) (*models.LocationDetails, error) {
	args := m.Called(ctx, latitude, longitude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LocationDetails), args.Error(1)
}

func (m *MockSuggester) ListNeighborhoods(ctx context.Context, city string) ([]string, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSuggester) SuggestRestaurant(ctx context.Context, cuisine, price, neighborhood, city string) (*models.Restaurant, error) {
	args := m.Called(ctx, cuisine, price, neighborhood, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	r := *args.Get(0).(*models.Restaurant)
	return &r, args.Error(1)
}

// failingStore fails every read of one key.
type failingStore struct {
	KeyValueStore
	key string
	err error
}

func (f *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == f.key {
		return "", false, f.err
	}
	return f.KeyValueStore.Get(ctx, key)
}
