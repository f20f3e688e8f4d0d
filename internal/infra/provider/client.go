// Package provider provides HTTP client utilities for external providers.
package provider

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 5 * time.Second

// ClientConfig holds configuration for a provider client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	CB        CBConfig
	RateLimit RateLimitConfig
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// RateLimitConfig throttles outgoing requests. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// NewRestyClient creates a Resty HTTP client for a provider.
// Retries are disabled: tier fallback is decided by the orchestrator.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	if cfg.BaseURL != "" {
		client.SetBaseURL(cfg.BaseURL)
	}

	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	if limiter := NewLimiter(cfg.RateLimit); limiter != nil {
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			// Wait fails at once when the deadline cannot cover the token.
			if err := limiter.Wait(r.Context()); err != nil {
				return fmt.Errorf("%w: %w", ErrThrottled, err)
			}

			return nil
		})
	}

	return client
}

// NewLimiter returns a token bucket limiter, or nil when disabled.
func NewLimiter(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(cfg.RPS), burst)
}

// NewCircuitBreaker creates a new circuit breaker for a provider. Only
// upstream failures count against it; see IsUpstreamFailure.
func NewCircuitBreaker[T any](name string, cfg CBConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 3
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.FailureRatio <= 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= minRequests && failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !IsUpstreamFailure(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}
