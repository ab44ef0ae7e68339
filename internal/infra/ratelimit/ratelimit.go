// Package ratelimit keeps one token bucket per client key in a bounded LRU.
package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	last    time.Time
}

type PerKey struct {
	mu       sync.Mutex
	visitors *lru.Cache[string, *visitor]
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

// New allows limit events per second with the given burst for each key.
// At most cacheSize keys are tracked; the least recently seen is dropped first.
func New(limit, burst, cacheSize int, ttl time.Duration) *PerKey {
	visitors, _ := lru.New[string, *visitor](cacheSize)
	return &PerKey{
		visitors: visitors,
		limit:    rate.Limit(limit),
		burst:    burst,
		ttl:      ttl,
	}
}

func (p *PerKey) Allow(key string) bool {
	p.mu.Lock()
	v, ok := p.visitors.Get(key)
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.visitors.Add(key, v)
	}
	v.last = time.Now()
	p.mu.Unlock()

	return v.limiter.Allow()
}

// Sweep drops keys idle for longer than ttl.
func (p *PerKey) Sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, key := range p.visitors.Keys() {
		if v, ok := p.visitors.Peek(key); ok && time.Since(v.last) > p.ttl {
			p.visitors.Remove(key)
		}
	}
}

// Run sweeps every ttl until ctx is done.
func (p *PerKey) Run(ctx context.Context) {
	ticker := time.NewTicker(p.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep()
		}
	}
}

func (p *PerKey) Len() int {
	return p.visitors.Len()
}
