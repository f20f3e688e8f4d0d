// Package locker coordinates periodic work across service instances so that
// only one of them runs a given job per interval.
package locker

import (
	"context"
	"time"
)

// DistributedLocker grants at most one holder per key at a time.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := l.Acquire(ctx, "health:probe", time.Minute)
//	if err != nil || !acquired {
//	    return
//	}
//	// probe; on failure l.Release(ctx, "health:probe") lets another instance retry
type DistributedLocker interface {
	// Acquire takes the lock for ttl without blocking. It returns false,
	// nil when another holder owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up a lock held by this instance. Releasing a lock it
	// does not hold is a no-op.
	Release(ctx context.Context, key string) error
}
