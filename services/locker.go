package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UnlockFunc releases a lock taken by TournamentLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// TournamentLocker serialises progression passes of one tournament.
type TournamentLocker interface {
	Lock(ctx context.Context, tournamentID int) (UnlockFunc, error)
}

// NoopLocker never blocks: concurrent passes race and the last write wins.
// Conditional slot writes still keep an assigned slot from being overwritten.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, int) (UnlockFunc, error) {
	return func(context.Context) error { return nil }, nil
}

const defaultLockTTL = 30 * time.Second

// releaseScript deletes the key only if it still carries our token, so an expired
// lock taken over by another pass is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisTournamentLocker is an advisory per-tournament lock on SET NX PX.
type RedisTournamentLocker struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisTournamentLocker(client redis.Cmdable, ttl time.Duration) *RedisTournamentLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisTournamentLocker{client: client, ttl: ttl, prefix: "progression:lock:"}
}

func (l *RedisTournamentLocker) key(tournamentID int) string {
	return fmt.Sprintf("%s%d", l.prefix, tournamentID)
}

func (l *RedisTournamentLocker) Lock(ctx context.Context, tournamentID int) (UnlockFunc, error) {
	key := l.key(tournamentID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire progression lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrResolutionInProgress
	}

	return func(ctx context.Context) error {
		err := releaseScript.Run(ctx, l.client, []string{key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release progression lock %s: %w", key, err)
		}
		return nil
	}, nil
}
