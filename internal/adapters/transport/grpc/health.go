// Package grpc exposes process health over the standard grpc.health.v1 service.
package grpc

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// HealthUpdater pings every dependency and publishes the result on a health.Server.
// Each check is published under its own service name; "" is SERVING only when all pass.
type HealthUpdater struct {
	srv     *health.Server
	checks  map[string]Check
	timeout time.Duration
	log     *zap.Logger

	mu   sync.Mutex
	last map[string]healthpb.HealthCheckResponse_ServingStatus
}

func NewHealthUpdater(srv *health.Server, checks map[string]Check, timeout time.Duration, log *zap.Logger) *HealthUpdater {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthUpdater{
		srv:     srv,
		checks:  checks,
		timeout: timeout,
		log:     log,
		last:    make(map[string]healthpb.HealthCheckResponse_ServingStatus),
	}
}

// Update runs all checks once and returns the overall status.
func (h *HealthUpdater) Update(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := healthpb.HealthCheckResponse_SERVING
	for _, name := range names {
		st := healthpb.HealthCheckResponse_SERVING
		cctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := h.checks[name](cctx)
		cancel()
		if err != nil {
			st = healthpb.HealthCheckResponse_NOT_SERVING
			overall = st
		}
		h.set(name, st, err)
	}
	h.set("", overall, nil)
	return overall
}

// Run updates every interval until ctx is done. The first update happens immediately.
func (h *HealthUpdater) Run(ctx context.Context, interval time.Duration) {
	h.Update(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return
		case <-ticker.C:
			h.Update(ctx)
		}
	}
}

func (h *HealthUpdater) set(name string, st healthpb.HealthCheckResponse_ServingStatus, err error) {
	h.mu.Lock()
	prev, seen := h.last[name]
	h.last[name] = st
	h.mu.Unlock()

	if !seen || prev != st {
		if err != nil {
			h.log.Warn("health changed", zap.String("service", name), zap.Stringer("status", st), zap.Error(err))
		} else {
			h.log.Info("health changed", zap.String("service", name), zap.Stringer("status", st))
		}
	}
	h.srv.SetServingStatus(name, st)
}
