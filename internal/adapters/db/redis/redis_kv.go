package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
)

type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{
		client: client,
	}
}

// NewClient builds the process-wide client. The caller owns it and must Close it.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, safeTTL(ttl)).Err(); err != nil {
		return customErrors.WrapCacheUnavailable(err, "Set")
	}
	return nil
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, customErrors.WrapCacheUnavailable(err, "Get")
	default:
		return val, true, nil
	}
}

func (r *RedisKV) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return customErrors.WrapCacheUnavailable(err, "Ping")
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

// safeTTL keeps a key from living forever when the remaining lifetime
// rounds down to zero.
func safeTTL(ttl time.Duration) time.Duration {
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
