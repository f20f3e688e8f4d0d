// Package fallback implements the two-tier primary/backup request flow.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/metrics"
)

// ErrNoBackup is returned when the primary tier failed and the request has
// no backup URL.
var ErrNoBackup = errors.New("no backup tier for request")

// Fetcher is a REST provider client.
type Fetcher interface {
	Name() domain.ProviderID
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Request names the operation and the fully formed URL for each tier.
type Request struct {
	Operation string
	Primary   string
	Backup    string
}

// Result carries the successful body together with the tier that produced
// it, so callers pick a normalizer without inspecting the payload.
type Result struct {
	Provider domain.ProviderID
	URL      string
	Body     []byte
}

// Orchestrator tries the primary tier, then the backup tier exactly once.
// There is no third tier and no retry within a tier.
type Orchestrator struct {
	primary Fetcher
	backup  Fetcher
	logger  *zap.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(primary, backup Fetcher, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		primary: primary,
		backup:  backup,
		logger:  logger,
	}
}

// Fetch returns the first tier's 200 response. When both tiers fail the
// backup's error is returned, wrapped around the primary's.
func (o *Orchestrator) Fetch(ctx context.Context, req Request) (*Result, error) {
	body, err := o.primary.Get(ctx, req.Primary)
	if err == nil {
		return &Result{Provider: o.primary.Name(), URL: req.Primary, Body: body}, nil
	}
	primaryErr := err

	o.logger.Warn("primary provider failed, falling back",
		zap.String("operation", req.Operation),
		zap.String("provider", string(o.primary.Name())),
		zap.String("url", req.Primary),
		zap.Error(primaryErr),
	)

	if req.Backup == "" {
		return nil, fmt.Errorf("%s: %w (primary: %w)", req.Operation, ErrNoBackup, primaryErr)
	}
	metrics.Fallbacks.WithLabelValues(req.Operation).Inc()

	body, err = o.backup.Get(ctx, req.Backup)
	if err != nil {
		return nil, fmt.Errorf("%s: backup: %w (primary: %w)", req.Operation, err, primaryErr)
	}

	return &Result{Provider: o.backup.Name(), URL: req.Backup, Body: body}, nil
}
