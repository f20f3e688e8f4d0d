package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/metrics"
)

// HealthService probes the REST tiers and records their status. It only
// observes: tier order in the Orchestrator never depends on it.
type HealthService struct {
	checkers []domain.HealthChecker
	store    domain.StatusStore
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewHealthService creates a new HealthService. Statuses expire after ttl.
func NewHealthService(checkers []domain.HealthChecker, store domain.StatusStore, ttl time.Duration, logger *zap.Logger) *HealthService {
	return &HealthService{
		checkers: checkers,
		store:    store,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// ProbeAll checks every provider concurrently and stores the outcomes.
// Partial failures are allowed.
func (s *HealthService) ProbeAll(ctx context.Context) []domain.ProviderStatus {
	results := make([]domain.ProviderStatus, len(s.checkers))
	var wg sync.WaitGroup

	for i, checker := range s.checkers {
		wg.Add(1)
		go func(idx int, c domain.HealthChecker) {
			defer wg.Done()
			results[idx] = s.probe(ctx, c)
		}(i, checker)
	}

	wg.Wait()

	down := 0
	for _, r := range results {
		if !r.Up {
			down++
		}
	}
	s.logger.Info("health probe completed",
		zap.Int("providers", len(results)),
		zap.Int("providers_down", down),
	)

	return results
}

func (s *HealthService) probe(ctx context.Context, c domain.HealthChecker) domain.ProviderStatus {
	status := domain.ProviderStatus{Provider: c.Name(), Up: true}

	if err := c.HealthCheck(ctx); err != nil {
		status.Up = false
		status.Error = err.Error()
		s.logger.Warn("provider health check failed",
			zap.String("provider", string(c.Name())),
			zap.Error(err),
		)
	}
	status.CheckedAt = s.now()

	gauge := 0.0
	if status.Up {
		gauge = 1
	}
	metrics.ProviderUp.WithLabelValues(string(c.Name())).Set(gauge)

	if err := s.store.Put(ctx, status, s.ttl); err != nil {
		s.logger.Error("storing provider status failed",
			zap.String("provider", string(c.Name())),
			zap.Error(err),
		)
	}

	return status
}

// Statuses returns the last known status of every provider. Providers
// never probed (or whose status expired) are absent.
func (s *HealthService) Statuses(ctx context.Context) ([]domain.ProviderStatus, error) {
	out := make([]domain.ProviderStatus, 0, len(s.checkers))
	for _, c := range s.checkers {
		st, err := s.store.Get(ctx, c.Name())
		if err != nil {
			return nil, err
		}
		if st != nil {
			out = append(out, *st)
		}
	}

	return out, nil
}

// Ready reports false only when every provider is known to be down.
// Unknown status counts as up.
func (s *HealthService) Ready(ctx context.Context) bool {
	statuses, err := s.Statuses(ctx)
	if err != nil {
		s.logger.Warn("reading provider status failed", zap.Error(err))
		return true
	}
	if len(statuses) < len(s.checkers) {
		return true
	}
	for _, st := range statuses {
		if st.Up {
			return true
		}
	}

	return false
}
