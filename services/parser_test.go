package services

import (
	"RestaurantRoulette/utils"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence inside text is kept", "see ```x```", "see ```x```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONResponse(tt.in))
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		City string `json:"city"`
	}
	require.NoError(t, ParseJSON("location", `{"city":"Austin"}`, &v))
	assert.Equal(t, "Austin", v.City)

	err := ParseJSON("location details", `{"city":`, &v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrMalformedResponse))
	assert.Equal(t, "Could not parse location details", err.Error())

	var malformed *utils.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, `{"city":`, malformed.Text)
}
