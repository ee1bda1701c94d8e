package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "matricula:"

// RedisKeyValue stores documents as plain Redis strings without expiry.
type RedisKeyValue struct {
	client *redis.Client
}

// NewRedisKeyValue constructs a Redis-backed key-value area.
func NewRedisKeyValue(client *redis.Client) *RedisKeyValue {
	return &RedisKeyValue{client: client}
}

// Get retrieves the stored document.
func (r *RedisKeyValue) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, errors.New("redis client not configured")
	}
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, true, nil
}

// Set stores the document, replacing any previous value.
func (r *RedisKeyValue) Set(ctx context.Context, key string, data []byte) error {
	if r.client == nil {
		return errors.New("redis client not configured")
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
