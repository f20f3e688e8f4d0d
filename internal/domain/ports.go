package domain

import (
	"context"
	"time"
)

// HealthChecker is implemented by provider clients that can be probed.
// Implementations: internal/infra/provider/rest/
type HealthChecker interface {
	// Name returns the provider identifier.
	Name() ProviderID

	// HealthCheck verifies the provider is reachable.
	HealthCheck(ctx context.Context) error
}

// ProviderStatus is the last observed health of one provider.
type ProviderStatus struct {
	Provider  ProviderID `json:"provider"`
	Up        bool       `json:"up"`
	Error     string     `json:"error,omitempty"`
	CheckedAt time.Time  `json:"checked_at"`
}

// StatusStore keeps the latest ProviderStatus per provider.
// Implementations: internal/infra/redis/status_store.go, MemoryStatusStore
type StatusStore interface {
	// Put records status; it expires after ttl when ttl > 0.
	Put(ctx context.Context, status ProviderStatus, ttl time.Duration) error

	// Get returns the recorded status, or nil if none is known.
	Get(ctx context.Context, provider ProviderID) (*ProviderStatus, error)
}
