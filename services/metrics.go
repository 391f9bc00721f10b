package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roulette_upstream_requests_total",
		Help: "Completion requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	fallbackAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roulette_fallback_attempts_total",
		Help: "Restaurant search attempts by position and outcome.",
	}, []string{"attempt", "outcome"})

	neighborhoodFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roulette_neighborhood_fetches_total",
		Help: "Neighborhood discovery calls by outcome.",
	}, []string{"outcome"})
)
