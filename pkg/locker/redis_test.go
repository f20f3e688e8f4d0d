package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const probeKey = "health:probe"

func newRedisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisLocker_AcquireAndPrefix(t *testing.T) {
	client, mr := newRedisClient(t)
	l := NewRedisLocker(client, "anime", zap.NewNop())

	acquired, err := l.Acquire(context.Background(), probeKey, 5*time.Second)

	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, mr.Exists("anime:"+probeKey))
}

func TestRedisLocker_SecondInstanceSkips(t *testing.T) {
	client, _ := newRedisClient(t)
	first := NewRedisLocker(client, "anime", zap.NewNop())
	second := NewRedisLocker(client, "anime", zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, probeKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.Acquire(ctx, probeKey, 5*time.Second)
	assert.NoError(t, err)
	assert.False(t, acquired)

	// Releasing a lock held elsewhere is a no-op.
	require.NoError(t, second.Release(ctx, probeKey))

	require.NoError(t, first.Release(ctx, probeKey))
	acquired, err = second.Acquire(ctx, probeKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	client, mr := newRedisClient(t)
	first := NewRedisLocker(client, "", zap.NewNop())
	second := NewRedisLocker(client, "", zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, probeKey, time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Second)

	acquired, err = second.Acquire(ctx, probeKey, time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ConcurrentInstances(t *testing.T) {
	client, _ := newRedisClient(t)
	const instances = 5
	results := make(chan bool, instances)

	for i := 0; i < instances; i++ {
		go func() {
			acquired, _ := NewRedisLocker(client, "anime", zap.NewNop()).Acquire(context.Background(), probeKey, 2*time.Second)
			results <- acquired
		}()
	}

	won := 0
	for i := 0; i < instances; i++ {
		if <-results {
			won++
		}
	}
	assert.Equal(t, 1, won)
}

func TestRedisLocker_CanceledContext(t *testing.T) {
	client, _ := newRedisClient(t)
	l := NewRedisLocker(client, "anime", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := l.Acquire(ctx, probeKey, 5*time.Second)
	assert.Error(t, err)
	assert.False(t, acquired)
}
