package store

import (
	"context"
	"errors"
	"time"

	"github.com/harvestlink/farmgate/internal/pkg/goerror"
	"github.com/redis/go-redis/v9"
)

const redisCodePrefix = "identitystub:code:"

// RedisCodes keeps code digests in Redis so several stub instances can share
// them; Redis owns the expiry.
type RedisCodes struct {
	client *redis.Client
}

// NewRedisCodes creates a Redis-backed code store.
func NewRedisCodes(client *redis.Client) *RedisCodes {
	return &RedisCodes{client: client}
}

func (r *RedisCodes) Put(ctx context.Context, email, digest string, ttl time.Duration) error {
	return r.client.Set(ctx, redisCodePrefix+email, digest, ttl).Err()
}

func (r *RedisCodes) Get(ctx context.Context, email string) (string, error) {
	digest, err := r.client.Get(ctx, redisCodePrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return digest, nil
}

func (r *RedisCodes) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, redisCodePrefix+email).Err()
}
