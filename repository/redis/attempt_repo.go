package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/careflow/repository"
)

type attemptRepository struct {
	client *redislib.Client
	prefix string
	window time.Duration
}

// NewAttemptRepository creates a Redis-backed failed-login counter. Every
// recorded failure pushes the key expiry out by window.
func NewAttemptRepository(client *redislib.Client, window time.Duration) repository.AttemptRepository {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &attemptRepository{
		client: client,
		prefix: "login_attempts:",
		window: window,
	}
}

func (r *attemptRepository) Failures(ctx context.Context, key string) (int, error) {
	count, err := r.client.Get(ctx, r.key(key)).Int()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (r *attemptRepository) RecordFailure(ctx context.Context, key string) (int, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, r.key(key))
	pipe.Expire(ctx, r.key(key), r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (r *attemptRepository) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *attemptRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
