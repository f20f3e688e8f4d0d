// Package metrics holds the Prometheus collectors for provider traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts provider calls.
	// Labels:
	//   - provider: "provider_a", "provider_b", "anilist"
	//   - outcome: "success", "status", "timeout", "network", "malformed", "circuit_open"
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_provider_requests_total",
			Help: "Total number of provider requests by outcome",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderRequestDuration measures provider round trips, bounded by the 5s call timeout.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anime_provider_request_duration_seconds",
			Help:    "Duration of provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"provider"},
	)

	// Fallbacks counts primary-tier failures that sent a request to the backup tier.
	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_fallbacks_total",
			Help: "Total number of primary to backup fallbacks",
		},
		[]string{"operation"},
	)

	// GraphQLOperations counts authenticated operations.
	// Labels:
	//   - operation: GraphQL operation name
	//   - outcome: "success", "propagated", "swallowed"
	GraphQLOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_graphql_operations_total",
			Help: "Total number of authenticated GraphQL operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// ProviderUp is 1 when the last health probe succeeded.
	ProviderUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "anime_provider_up",
			Help: "Whether the last health probe of a provider succeeded",
		},
		[]string{"provider"},
	)
)
