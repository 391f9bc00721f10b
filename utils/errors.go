package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError digunakan untuk error dengan status code yang spesifik
type CustomError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *CustomError) Error() string {
	return e.Message
}

// NewCustomError Fungsi helper untuk membuat CustomError
func NewCustomError(statusCode int, message string) *CustomError {
	return &CustomError{StatusCode: statusCode, Message: message}
}

// Error kinds shared by the suggestion client, the fallback engine and the selection manager.
var (
	ErrUpstreamUnavailable     = errors.New("upstream unavailable")
	ErrUnexpectedResponseShape = errors.New("Unexpected API response format")
	ErrMalformedResponse       = errors.New("malformed response")
	ErrNoMatchFound            = errors.New("NO_RESTAURANT_FOUND")
	ErrAllFallbacksExhausted   = errors.New("NO_RESTAURANT_FOUND_FALLBACK_FAILED")
	ErrGeolocationDenied       = errors.New("geolocation denied")
	ErrGeolocationUnsupported  = errors.New("geolocation unsupported")
	ErrSearchInProgress        = errors.New("search already in progress")
	ErrFetchInProgress         = errors.New("location lookup already in progress")
	ErrCityRequired            = errors.New("Please enter a city first.")
)

// UpstreamError is a failed call to the completion endpoint.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: upstream returned status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": upstream unavailable"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamUnavailable }

// MalformedResponseError keeps the text that failed to parse for diagnostics.
type MalformedResponseError struct {
	Op   string
	Text string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return "Could not parse " + e.Op
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// StatusFor maps an error kind to the HTTP status the API answers with.
func StatusFor(err error) int {
	var custom *CustomError
	switch {
	case errors.As(err, &custom):
		return custom.StatusCode
	case errors.Is(err, ErrSearchInProgress), errors.Is(err, ErrFetchInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrAllFallbacksExhausted), errors.Is(err, ErrNoMatchFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGeolocationDenied), errors.Is(err, ErrGeolocationUnsupported),
		errors.Is(err, ErrCityRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamUnavailable),
		errors.Is(err, ErrUnexpectedResponseShape),
		errors.Is(err, ErrMalformedResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
