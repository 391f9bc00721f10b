package services

import (
	"RestaurantRoulette/logging"
	"RestaurantRoulette/utils"
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ResilientCompleter rate limits calls to the wrapped Completer and stops calling it
// while the upstream keeps failing. It never retries.
type ResilientCompleter struct {
	next     Completer
	provider string
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker[string]
}

func NewResilientCompleter(next Completer, provider string, ratePerSec float64, burst int) *ResilientCompleter {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        provider + "-completion",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// shape problems mean the upstream answered
			return err == nil || !errors.Is(err, utils.ErrUpstreamUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &ResilientCompleter{
		next:     next,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), burst),
		cb:       cb,
	}
}

func (s *ResilientCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		upstreamRequests.WithLabelValues(s.provider, "rate_limited").Inc()
		return "", &utils.UpstreamError{Op: "completion", Err: err}
	}

	text, err := s.cb.Execute(func() (string, error) {
		return s.next.Complete(ctx, prompt, maxTokens)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		upstreamRequests.WithLabelValues(s.provider, "rejected").Inc()
		return "", &utils.UpstreamError{Op: "completion", Err: err}
	case errors.Is(err, utils.ErrUpstreamUnavailable):
		upstreamRequests.WithLabelValues(s.provider, "unavailable").Inc()
		return "", err
	case err != nil:
		upstreamRequests.WithLabelValues(s.provider, "bad_shape").Inc()
		return "", err
	}
	upstreamRequests.WithLabelValues(s.provider, "success").Inc()
	return text, nil
}
