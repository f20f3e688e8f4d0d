// Package registry builds the upstream provider clients from configuration.
package registry

import (
	"go.uber.org/zap"

	"anime-aggregator/internal/config"
	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
	"anime-aggregator/internal/infra/provider/graphql"
	"anime-aggregator/internal/infra/provider/rest"
)

// Providers holds every configured upstream client.
type Providers struct {
	Primary *rest.Client
	Backup  *rest.Client
	AniList *graphql.Client
}

// HealthCheckers returns the REST tiers as probe targets, primary first.
func (p *Providers) HealthCheckers() []domain.HealthChecker {
	return []domain.HealthChecker{p.Primary, p.Backup}
}

// NewProviders creates all configured provider clients.
// This is a factory function that centralizes provider initialization
// while maintaining dependency injection principles.
//
// Parameters:
//   - cfg: Provider configuration containing endpoints, timeouts, rate limits, and circuit breaker settings
//   - logger: Zap logger instance for structured logging
func NewProviders(cfg config.ProviderConfig, logger *zap.Logger) *Providers {
	return &Providers{
		Primary: rest.New(domain.ProviderA, clientConfig(cfg.A), logger),
		Backup:  rest.New(domain.ProviderB, clientConfig(cfg.B), logger),
		AniList: graphql.New(clientConfig(cfg.AniList), logger),
	}
}

func clientConfig(e config.ProviderEndpoint) provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL: e.BaseURL,
		Timeout: e.Timeout,
		CB: provider.CBConfig{
			MaxRequests:  e.CB.MaxRequests,
			Interval:     e.CB.Interval,
			Timeout:      e.CB.Timeout,
			FailureRatio: e.CB.FailureRatio,
			MinRequests:  e.CB.MinRequests,
		},
		RateLimit: provider.RateLimitConfig{
			RPS:   e.RateLimit.RPS,
			Burst: e.RateLimit.Burst,
		},
	}
}
