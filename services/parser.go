package services

import (
	"RestaurantRoulette/utils"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

var codeFence = regexp.MustCompile("(?s)^```(?:json)?(.*?)```$")

// cleanJSONResponse trims whitespace and a surrounding markdown code fence.
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = codeFence.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}

// ParseJSON runs one strict parse of text into v. Any failure is a MalformedResponseError
// carrying the text; nothing is recovered or retried here.
func ParseJSON(op, text string, v interface{}) error {
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &utils.MalformedResponseError{Op: op, Text: text, Err: err}
	}
	return nil
}
