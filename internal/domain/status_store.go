package domain

import (
	"context"
	"sync"
	"time"
)

// MemoryStatusStore is an in-process StatusStore used when Redis is disabled.
type MemoryStatusStore struct {
	mu      sync.RWMutex
	entries map[ProviderID]memoryStatus
	now     func() time.Time
}

type memoryStatus struct {
	status    ProviderStatus
	expiresAt time.Time
}

// NewMemoryStatusStore creates an empty MemoryStatusStore.
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{
		entries: make(map[ProviderID]memoryStatus),
		now:     time.Now,
	}
}

// Put records status for status.Provider.
func (s *MemoryStatusStore) Put(_ context.Context, status ProviderStatus, ttl time.Duration) error {
	entry := memoryStatus{status: status}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[status.Provider] = entry
	s.mu.Unlock()

	return nil
}

// Get returns the recorded status or nil when absent or expired.
func (s *MemoryStatusStore) Get(_ context.Context, provider ProviderID) (*ProviderStatus, error) {
	s.mu.RLock()
	entry, ok := s.entries[provider]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		return nil, nil
	}

	status := entry.status

	return &status, nil
}
