// Package rest implements the REST provider client used for both tiers.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
	"anime-aggregator/internal/metrics"
)

// Client issues single GET requests against one REST provider.
type Client struct {
	name    domain.ProviderID
	baseURL string
	timeout time.Duration
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

// New creates a REST client for provider name.
func New(name domain.ProviderID, cfg provider.ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = provider.DefaultTimeout
	}

	return &Client{
		name:    name,
		baseURL: cfg.BaseURL,
		timeout: timeout,
		client:  provider.NewRestyClient(cfg),
		cb:      provider.NewCircuitBreaker[[]byte](string(name), cfg.CB, logger),
		logger:  logger.With(zap.String("provider", string(name))),
	}
}

// Name returns the provider identifier.
func (c *Client) Name() domain.ProviderID {
	return c.name
}

// HTTPClient returns the underlying *http.Client, e.g. to install a mock transport.
func (c *Client) HTTPClient() *http.Client {
	return c.client.GetClient()
}

// BaseURL returns the configured base URL, used to build request URLs.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches rawURL, which must be fully formed with its query encoded.
// It succeeds only on status 200 with a syntactically valid JSON body.
// Every other result is one of the provider failure signals.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		r, err := c.client.R().
			SetContext(ctx).
			Get(rawURL)
		if err != nil {
			return nil, provider.Classify(err)
		}
		if r.StatusCode() != http.StatusOK {
			return nil, &provider.StatusError{Provider: c.name, Code: r.StatusCode()}
		}
		if !json.Valid(r.Body()) {
			return nil, fmt.Errorf("%w from %s", provider.ErrMalformedJSON, c.name)
		}

		return r.Body(), nil
	})
	err = provider.Classify(err)

	metrics.ProviderRequests.WithLabelValues(string(c.name), provider.Outcome(err)).Inc()
	metrics.ProviderRequestDuration.WithLabelValues(string(c.name)).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Debug("provider request failed",
			zap.String("url", rawURL),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("fetching from %s: %w", c.name, err)
	}

	return body, nil
}

// HealthCheck verifies the provider base URL answers below 500.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.baseURL)
	if err != nil {
		return provider.Classify(err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return &provider.StatusError{Provider: c.name, Code: resp.StatusCode()}
	}

	return nil
}
