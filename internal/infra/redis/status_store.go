// Package redis holds the Redis-backed adapters.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
)

// StatusStore implements domain.StatusStore on Redis so every API instance
// sees the same provider health. Keys are namespaced by keyPrefix.
type StatusStore struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewStatusStore creates a new Redis status store.
func NewStatusStore(client *redis.Client, logger *zap.Logger, keyPrefix string) *StatusStore {
	return &StatusStore{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Put stores status as JSON with the given TTL (0 keeps it forever).
func (s *StatusStore) Put(ctx context.Context, status domain.ProviderStatus, ttl time.Duration) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	key := s.buildKey(status.Provider)
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Error("status set failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return err
	}

	s.logger.Debug("status set",
		zap.String("key", key),
		zap.Bool("up", status.Up),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Get returns the stored status, or nil if the key doesn't exist.
func (s *StatusStore) Get(ctx context.Context, provider domain.ProviderID) (*domain.ProviderStatus, error) {
	key := s.buildKey(provider)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Unknown or expired - not an error condition
		return nil, nil
	}
	if err != nil {
		s.logger.Error("status get failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil, err
	}

	var status domain.ProviderStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("decoding status %s: %w", key, err)
	}

	return &status, nil
}

func (s *StatusStore) buildKey(provider domain.ProviderID) string {
	return s.keyPrefix + ":health:" + string(provider)
}
