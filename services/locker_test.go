package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*RedisTournamentLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTournamentLocker(client, ttl), mr
}

func TestRedisLockerExcludesConcurrentPass(t *testing.T) {
	locker, mr := newTestLocker(t, time.Minute)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, 7)
	require.NoError(t, err)
	assert.True(t, mr.Exists("progression:lock:7"))

	_, err = locker.Lock(ctx, 7)
	assert.ErrorIs(t, err, ErrResolutionInProgress)

	other, err := locker.Lock(ctx, 8)
	require.NoError(t, err, "locks are per tournament")
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("progression:lock:7"))

	again, err := locker.Lock(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRedisLockerExpiresAndKeepsForeignLock(t *testing.T) {
	locker, mr := newTestLocker(t, 5*time.Second)
	ctx := context.Background()

	stale, err := locker.Lock(ctx, 3)
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)

	fresh, err := locker.Lock(ctx, 3)
	require.NoError(t, err)

	// the expired holder must not release the new holder's lock
	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("progression:lock:3"))

	require.NoError(t, fresh(ctx))
	assert.False(t, mr.Exists("progression:lock:3"))
}

func TestRedisLockerDefaultTTL(t *testing.T) {
	locker, mr := newTestLocker(t, 0)

	unlock, err := locker.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	assert.Equal(t, defaultLockTTL, mr.TTL("progression:lock:1"))
}

func TestNoopLockerNeverBlocks(t *testing.T) {
	var l NoopLocker
	u1, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	u2, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	assert.NoError(t, u1(context.Background()))
	assert.NoError(t, u2(context.Background()))
}
