package repo

import (
	"context"
	"time"
)

// SessionCache mirrors issued tokens for fast-path lookups. It never reports
// errors: an unreachable cache reads as "absent".
type SessionCache interface {
	RecordSession(ctx context.Context, token string, userID int64, ttl time.Duration)

	LookupByToken(ctx context.Context, token string) (userID int64, ok bool)

	LookupLatestToken(ctx context.Context, userID int64) (token string, ok bool)
}
