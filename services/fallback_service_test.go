package services

import (
	"RestaurantRoulette/models"
	"RestaurantRoulette/utils"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAttempts_FixedOrder(t *testing.T) {
	got := Attempts("Italian", "$$", "Soho")
	assert.Equal(t, []Attempt{
		{Cuisine: "Italian", Price: "$$", Neighborhood: "Soho"},
		{Cuisine: "Italian", Price: models.Any, Neighborhood: "Soho", Note: NoteAnyPrice},
		{Cuisine: models.Any, Price: "$$", Neighborhood: "Soho", Note: NoteAnyCuisine},
		{Cuisine: "Italian", Price: "$$", Neighborhood: models.Any, Note: NoteAnyNeighborhood},
	}, got)

	// already "Any" dimensions still produce their attempt
	assert.Len(t, Attempts(models.Any, models.Any, models.Any), 4)
}

func TestFindRestaurant_FirstAttemptHasNoNote(t *testing.T) {
	suggester := new(MockSuggester)
	suggester.On("SuggestRestaurant", mock.Anything, "Any", "Any", "Any", "Austin, TX").
		Return(&models.Restaurant{Name: "Franklin Barbecue", FallbackNote: "stale"}, nil).Once()

	got, err := NewFallbackService(suggester).FindRestaurant(context.Background(), "Any", "Any", "Any", "Austin, TX", nil)
	require.NoError(t, err)
	assert.Equal(t, "Franklin Barbecue", got.Name)
	assert.Empty(t, got.FallbackNote)
	suggester.AssertExpectations(t)
}

func TestFindRestaurant_NotesPerPosition(t *testing.T) {
	notes := []string{"", NoteAnyPrice, NoteAnyCuisine, NoteAnyNeighborhood}
	for k := range notes {
		suggester := new(MockSuggester)
		for i, a := range Attempts("Thai", "$", "Soho") {
			call := suggester.On("SuggestRestaurant", mock.Anything, a.Cuisine, a.Price, a.Neighborhood, "London")
			switch {
			case i < k:
				call.Return(nil, utils.ErrNoMatchFound).Once()
			case i == k:
				call.Return(&models.Restaurant{Name: "Found"}, nil).Once()
			}
		}

		got, err := NewFallbackService(suggester).FindRestaurant(context.Background(), "Thai", "$", "Soho", "London", nil)
		require.NoError(t, err)
		assert.Equal(t, notes[k], got.FallbackNote, "attempt %d", k+1)
		suggester.AssertNumberOfCalls(t, "SuggestRestaurant", k+1)
	}
}

func TestFindRestaurant_Exhausted(t *testing.T) {
	suggester := new(MockSuggester)
	suggester.On("SuggestRestaurant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "Nowhere").
		Return(nil, utils.ErrNoMatchFound)

	var observed []int
	got, err := NewFallbackService(suggester).FindRestaurant(context.Background(), "Thai", "$", "Soho", "Nowhere",
		func(i int, _ Attempt) { observed = append(observed, i) })
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, utils.ErrAllFallbacksExhausted))
	assert.Equal(t, []int{0, 1, 2, 3}, observed)
	suggester.AssertNumberOfCalls(t, "SuggestRestaurant", 4)
}

func TestFindRestaurant_OtherErrorsAbort(t *testing.T) {
	suggester := new(MockSuggester)
	suggester.On("SuggestRestaurant", mock.Anything, "Thai", "$", "Soho", "London").
		Return(nil, utils.ErrNoMatchFound).Once()
	suggester.On("SuggestRestaurant", mock.Anything, "Thai", "Any", "Soho", "London").
		Return(nil, &utils.MalformedResponseError{Op: "restaurant data", Err: errors.New("bad")}).Once()

	_, err := NewFallbackService(suggester).FindRestaurant(context.Background(), "Thai", "$", "Soho", "London", nil)
	assert.True(t, errors.Is(err, utils.ErrMalformedResponse))
	suggester.AssertNumberOfCalls(t, "SuggestRestaurant", 2)
}

func TestFindRestaurant_ScenarioB(t *testing.T) {
	suggester := new(MockSuggester)
	suggester.On("SuggestRestaurant", mock.Anything, "Italian", "$$", "Any", "Austin, TX").Return(nil, utils.ErrNoMatchFound).Once()
	suggester.On("SuggestRestaurant", mock.Anything, "Italian", "Any", "Any", "Austin, TX").Return(nil, utils.ErrNoMatchFound).Once()
	suggester.On("SuggestRestaurant", mock.Anything, "Any", "$$", "Any", "Austin, TX").
		Return(&models.Restaurant{Name: "Uchi", Cuisine: "Japanese", Price: "$$"}, nil).Once()

	got, err := NewFallbackService(suggester).FindRestaurant(context.Background(), "Italian", "$$", "Any", "Austin, TX", nil)
	require.NoError(t, err)
	assert.Equal(t, NoteAnyCuisine, got.FallbackNote)
	assert.Contains(t, got.FallbackNote, "couldn't find a match, so we searched for any cuisine")
	suggester.AssertExpectations(t)
}
