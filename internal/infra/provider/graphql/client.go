// Package graphql implements the authenticated GraphQL provider client.
package graphql

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
	"anime-aggregator/internal/metrics"
)

// Request is one GraphQL query or mutation.
type Request struct {
	OperationName string
	Query         string
	Variables     map[string]any
	Token         string // bearer token, sent when non-empty
}

// Error is a server-reported GraphQL failure.
type Error struct {
	Status   int
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("graphql error (status %d): %s", e.Status, strings.Join(e.Messages, "; "))
}

// NotFound reports whether the server rejected the request as a missing resource.
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}

type payload struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
	status int
}

// Client posts GraphQL documents to a single endpoint.
type Client struct {
	name     domain.ProviderID
	endpoint string
	timeout  time.Duration
	client   *resty.Client
	cb       *gobreaker.CircuitBreaker[*envelope]
	logger   *zap.Logger
}

// New creates a GraphQL client. cfg.BaseURL is the GraphQL endpoint.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = provider.DefaultTimeout
	}

	return &Client{
		name:     domain.ProviderAniList,
		endpoint: cfg.BaseURL,
		timeout:  timeout,
		client:   provider.NewRestyClient(provider.ClientConfig{Timeout: timeout, RateLimit: cfg.RateLimit}),
		cb:       provider.NewCircuitBreaker[*envelope](string(domain.ProviderAniList), cfg.CB, logger),
		logger:   logger.With(zap.String("provider", string(domain.ProviderAniList))),
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

// Execute sends req and decodes the "data" member into out (which may be nil).
// Server-reported errors come back as *Error; transport failures as the
// provider failure signals.
func (c *Client) Execute(ctx context.Context, req Request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	env, err := c.cb.Execute(func() (*envelope, error) {
		r := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload{
				Query:         req.Query,
				Variables:     req.Variables,
				OperationName: req.OperationName,
			})
		if req.Token != "" {
			r.SetAuthToken(req.Token)
		}

		resp, err := r.Post(c.endpoint)
		if err != nil {
			return nil, provider.Classify(err)
		}

		var env envelope
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			if resp.StatusCode() != http.StatusOK {
				return nil, &provider.StatusError{Provider: c.name, Code: resp.StatusCode()}
			}

			return nil, fmt.Errorf("%w: %w", provider.ErrMalformedJSON, err)
		}
		env.status = resp.StatusCode()
		// 5xx without a GraphQL error body is a provider outage.
		if env.status >= http.StatusInternalServerError && len(env.Errors) == 0 {
			return nil, &provider.StatusError{Provider: c.name, Code: env.status}
		}

		return &env, nil
	})
	err = provider.Classify(err)

	metrics.ProviderRequests.WithLabelValues(string(c.name), provider.Outcome(err)).Inc()
	metrics.ProviderRequestDuration.WithLabelValues(string(c.name)).Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("executing %s: %w", req.OperationName, err)
	}

	if len(env.Errors) > 0 {
		gqlErr := &Error{Status: env.status}
		for _, e := range env.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
			if e.Status != 0 {
				gqlErr.Status = e.Status
			}
		}
		c.logger.Debug("graphql operation returned errors",
			zap.String("operation", req.OperationName),
			zap.Strings("messages", gqlErr.Messages),
		)

		return gqlErr
	}

	if env.status != http.StatusOK {
		return &provider.StatusError{Provider: c.name, Code: env.status}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s: %w: %w", req.OperationName, provider.ErrMalformedJSON, err)
	}

	return nil
}
