package repo

import (
	"context"
	"time"
)

// KV is a key-value store with per-key expiry.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns ok == false when the key does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	Ping(ctx context.Context) error

	Close() error
}
