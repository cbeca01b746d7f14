package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and waits until it answers PING.
func Connect(ctx context.Context, opts Options, logger *slog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not ready", "addr", opts.Addr, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = rdb.Close()
		return nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", opts.Addr).Wrap(err)
	}

	logger.Info("connected to Redis", "addr", opts.Addr)
	return rdb, nil
}

// AttemptLimiter counts failed logins per key in Redis. The counter expires
// window after the first failure, which ends the lockout.
type AttemptLimiter struct {
	rdb         redis.Cmdable
	maxFailures int
	window      time.Duration
	prefix      string
}

func NewAttemptLimiter(rdb redis.Cmdable, maxFailures int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{rdb: rdb, maxFailures: maxFailures, window: window, prefix: "login_failures:"}
}

// Allow reports whether key still has attempts left.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Get(ctx, l.prefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, oops.Code("LIMITER_READ_FAILED").With("key", key).Wrap(err)
	}
	return n < l.maxFailures, nil
}

func (l *AttemptLimiter) RecordFailure(ctx context.Context, key string) error {
	k := l.prefix + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return oops.Code("LIMITER_WRITE_FAILED").With("key", key).Wrap(err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return oops.Code("LIMITER_WRITE_FAILED").With("key", key).Wrap(err)
		}
	}
	return nil
}

func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, l.prefix+key).Err(); err != nil {
		return oops.Code("LIMITER_WRITE_FAILED").With("key", key).Wrap(err)
	}
	return nil
}
