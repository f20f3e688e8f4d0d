// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/pkg/locker"
)

const healthLockKey = "health:probe:lock"

// Prober probes every provider and records the results.
type Prober interface {
	ProbeAll(ctx context.Context) []domain.ProviderStatus
}

// HealthConfig holds health scheduler configuration.
type HealthConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	LockTTL  time.Duration
}

// HealthScheduler runs periodic provider probes. A distributed lock keeps a
// fleet of instances down to one probe per interval, since the upstreams
// are rate limited.
type HealthScheduler struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	lockTTL  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHealthScheduler creates a new HealthScheduler.
func NewHealthScheduler(
	prober Prober,
	cfg HealthConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *HealthScheduler {
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 || lockTTL > cfg.Interval {
		lockTTL = cfg.Interval
	}

	return &HealthScheduler{
		prober:   prober,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		lockTTL:  lockTTL,
		logger:   logger,
		locker:   locker,
	}
}

// Start probes once immediately, then every interval.
func (s *HealthScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting health scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.run()
}

// Stop gracefully stops the scheduler.
func (s *HealthScheduler) Stop() {
	s.logger.Info("stopping health scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("health scheduler stopped")
}

func (s *HealthScheduler) run() {
	defer s.wg.Done()

	s.executeProbe()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeProbe()
		}
	}
}

// executeProbe probes under the lock. The lock is held for lockTTL as a
// cooldown after a clean probe and released at once when any provider is
// down, so the next instance re-checks on its own tick.
func (s *HealthScheduler) executeProbe() {
	acquired, err := s.locker.Acquire(s.ctx, healthLockKey, s.lockTTL)
	if err != nil {
		s.logger.Error("failed to acquire health lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("another instance is probing, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	down := 0
	for _, st := range s.prober.ProbeAll(ctx) {
		if !st.Up {
			down++
		}
	}

	if down > 0 {
		if err := s.locker.Release(s.ctx, healthLockKey); err != nil {
			s.logger.Error("failed to release health lock", zap.Error(err))
		}
	}
}
