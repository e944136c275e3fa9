package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptPrefix = "auth:login_failures:"

// LoginAttemptRepository counts failed logins per key inside a sliding TTL.
type LoginAttemptRepository interface {
	Count(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type redisLoginAttemptRepository struct {
	client *redis.Client
}

// NewLoginAttemptRepository returns a Redis-backed counter store.
func NewLoginAttemptRepository(client *redis.Client) LoginAttemptRepository {
	return &redisLoginAttemptRepository{client: client}
}

func (r *redisLoginAttemptRepository) Count(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, loginAttemptPrefix+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// Increment bumps the counter and starts the window on the first failure.
func (r *redisLoginAttemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := loginAttemptPrefix + key
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *redisLoginAttemptRepository) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, loginAttemptPrefix+key).Err()
}
