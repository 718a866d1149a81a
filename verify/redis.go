package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo stores verification tokens under "verification:token:<token>"
// as JSON, with the verification lifetime as TTL.
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

func verificationKey(token string) string {
	return "verification:token:" + token
}

func (r *RedisRepo) Save(ctx context.Context, token Token, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("verify.RedisRepo.Save: %w", err)
	}

	if err := r.client.Set(ctx, verificationKey(token.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("verify.RedisRepo.Save: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, token string) (*Token, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	payload, err := r.client.Get(ctx, verificationKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("verify.RedisRepo.Get: %w", err)
	}

	var decoded Token
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("verify.RedisRepo.Get: %w", err)
	}
	return &decoded, nil
}

func (r *RedisRepo) Delete(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, verificationKey(token)).Err(); err != nil {
		return fmt.Errorf("verify.RedisRepo.Delete: %w", err)
	}
	return nil
}
