package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo stores refresh tokens under "refresh:<email>" with the
// refresh lifetime as TTL. Every call is bounded by opTimeout.
type RedisRepo struct {
	client    redis.UniversalClient
	opTimeout time.Duration
}

func NewRedisRepo(client redis.UniversalClient, opTimeout time.Duration) *RedisRepo {
	if opTimeout <= 0 {
		opTimeout = 3 * time.Second
	}
	return &RedisRepo{client: client, opTimeout: opTimeout}
}

func refreshKey(email string) string {
	return "refresh:" + email
}

func (r *RedisRepo) Save(ctx context.Context, email, refreshToken string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, refreshKey(email), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("session.RedisRepo.Save: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, email string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	value, err := r.client.Get(ctx, refreshKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session.RedisRepo.Get: %w", err)
	}
	return value, nil
}

func (r *RedisRepo) Delete(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, refreshKey(email)).Err(); err != nil {
		return fmt.Errorf("session.RedisRepo.Delete: %w", err)
	}
	return nil
}
