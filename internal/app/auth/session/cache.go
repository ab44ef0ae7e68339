// Package session mirrors issued tokens into a key-value store.
//
// Two records are written per login: token:{token} -> user id and
// user:{id}:token -> token. Both carry the token's lifetime as TTL. The cache
// is never authoritative: every failure is logged and reported to callers as
// "absent", and token validity is always decided by the signature.
package session

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastskeleton/backend/internal/domain/auth/repo"
	"github.com/fastskeleton/backend/internal/infra/metrics"
)

type Cache struct {
	kv      repo.KV
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewCache(kv repo.KV, log *zap.Logger, m *metrics.Metrics) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{kv: kv, log: log, metrics: m}
}

func tokenKey(token string) string {
	return "token:" + token
}

func userKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":token"
}

// RecordSession writes both mappings concurrently. A failure of either write
// is logged and otherwise ignored.
func (c *Cache) RecordSession(ctx context.Context, token string, userID int64, ttl time.Duration) {
	var g errgroup.Group

	g.Go(func() error {
		if err := c.kv.Set(ctx, tokenKey(token), strconv.FormatInt(userID, 10), ttl); err != nil {
			c.metrics.CacheError("set_token")
			c.log.Warn("session cache: token write failed",
				zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		if err := c.kv.Set(ctx, userKey(userID), token, ttl); err != nil {
			c.metrics.CacheError("set_latest")
			c.log.Warn("session cache: latest-token write failed",
				zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil
	})

	_ = g.Wait()
}

func (c *Cache) LookupByToken(ctx context.Context, token string) (int64, bool) {
	val, ok, err := c.kv.Get(ctx, tokenKey(token))
	if err != nil {
		c.metrics.CacheError("get_token")
		c.log.Warn("session cache: token lookup failed", zap.Error(err))
		return 0, false
	}
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		c.log.Warn("session cache: corrupt user id", zap.String("value", val))
		return 0, false
	}
	return id, true
}

func (c *Cache) LookupLatestToken(ctx context.Context, userID int64) (string, bool) {
	val, ok, err := c.kv.Get(ctx, userKey(userID))
	if err != nil {
		c.metrics.CacheError("get_latest")
		c.log.Warn("session cache: latest-token lookup failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return "", false
	}
	return val, ok
}

var _ repo.SessionCache = (*Cache)(nil)
