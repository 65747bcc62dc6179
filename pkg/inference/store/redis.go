package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// StringGetter is the subset of redis.Cmdable used by the store.
type StringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore reads artifacts stored as string values.
type RedisStore struct {
	client StringGetter
	prefix string
}

// NewRedisClient connects to addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Redis returns a store reading keys under prefix through client.
func Redis(client StringGetter, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Fetch implements Store.
func (s *RedisStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return firstAvailable(ctx, s.prefix, ref, func(ctx context.Context, key string) ([]byte, error) {
		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return data, err
	})
}
