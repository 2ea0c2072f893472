// internal/lock/redis.go
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/util"
)

// KeyPrefix namespaces account lock keys in Redis.
const KeyPrefix = "ledger:account:"

// RedisOptions configures RedLock acquisition.
type RedisOptions struct {
	// Expiry bounds how long a crashed holder can block an account.
	Expiry     time.Duration
	Tries      int
	RetryDelay time.Duration
}

// DefaultRedisOptions suits money movements that finish well within a second.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Expiry:     8 * time.Second,
		Tries:      32,
		RetryDelay: 50 * time.Millisecond,
	}
}

// RedisLocker coordinates account access across service instances with redsync.
type RedisLocker struct {
	redsync *redsync.Redsync
	opts    RedisOptions
	logger  *zap.Logger
}

// NewRedisLocker creates a RedisLocker on top of client. Zero option fields take defaults.
func NewRedisLocker(client redis.UniversalClient, opts RedisOptions, logger *zap.Logger) *RedisLocker {
	defaults := DefaultRedisOptions()
	if opts.Expiry <= 0 {
		opts.Expiry = defaults.Expiry
	}
	if opts.Tries <= 0 {
		opts.Tries = defaults.Tries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaults.RetryDelay
	}
	return &RedisLocker{
		redsync: redsync.New(goredis.NewPool(client)),
		opts:    opts,
		logger:  logger,
	}
}

// Lock acquires one RedLock mutex per account. Running out of tries yields
// util.ErrConcurrencyConflict so the caller can resubmit.
func (l *RedisLocker) Lock(ctx context.Context, accountIDs ...int64) (ReleaseFunc, error) {
	ordered := domain.LockOrder(accountIDs...)
	releases := make([]func(), 0, len(ordered))

	for _, id := range ordered {
		key := fmt.Sprintf("%s%d", KeyPrefix, id)
		mutex := l.redsync.NewMutex(key,
			redsync.WithExpiry(l.opts.Expiry),
			redsync.WithTries(l.opts.Tries),
			redsync.WithRetryDelay(l.opts.RetryDelay),
		)

		if err := mutex.LockContext(ctx); err != nil {
			releaseAll(releases)
			if ctx.Err() != nil {
				return nil, fmt.Errorf("failed to lock account %d: %w", id, ctx.Err())
			}
			l.logger.Warn("Account lock unavailable", zap.String("key", key), zap.Error(err))
			return nil, fmt.Errorf("%w: account %d is locked: %w", util.ErrConcurrencyConflict, id, err)
		}

		releases = append(releases, func() {
			// The caller's context may already be done; unlocking must still reach Redis.
			if ok, err := mutex.UnlockContext(context.Background()); !ok || err != nil {
				l.logger.Error("Failed to release account lock", zap.String("key", key), zap.Bool("ok", ok), zap.Error(err))
			}
		})
	}

	var once sync.Once
	return func() { once.Do(func() { releaseAll(releases) }) }, nil
}
