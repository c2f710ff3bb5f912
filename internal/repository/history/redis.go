package history

import (
	"context"
	"errors"
	"fmt"

	"delicias-urbanas/internal/domain"
	"github.com/go-redis/redis/v8"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis stores values under prefix+key.
func NewRedis(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
