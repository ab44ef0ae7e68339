package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"

	myRedis "github.com/fastskeleton/backend/internal/adapters/db/redis"
	myGrpc "github.com/fastskeleton/backend/internal/adapters/transport/grpc"
	myHttp "github.com/fastskeleton/backend/internal/adapters/transport/http"
	"github.com/fastskeleton/backend/internal/app/auth/session"
	"github.com/fastskeleton/backend/internal/infra/database"
	"github.com/fastskeleton/backend/internal/infra/metrics"
	"github.com/fastskeleton/backend/internal/infra/ratelimit"
	"github.com/fastskeleton/backend/internal/infra/server"
)

const (
	rateLimitCacheSize = 10_000
	rateLimitIdleTTL   = time.Hour

	grpcRateLimit = 10
	grpcRateBurst = 100

	healthInterval = 10 * time.Second
	healthTimeout  = 2 * time.Second
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (and the gRPC ops listener when GRPC_ADDRESS is set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, sqlDB, err := openDatabase(cfg, logger)
	if err != nil {
		logger.Error("database", zap.Error(err))
		return err
	}
	defer sqlDB.Close()

	kv := myRedis.NewRedisKV(myRedis.NewClient(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB))
	defer kv.Close()
	if err := kv.Ping(ctx); err != nil {
		// sessions are best-effort, so a cold cache is not fatal
		logger.Warn("redis unreachable at start-up", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc, err := newService(serviceDeps{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		sessions: session.NewCache(kv, logger, m),
		metrics:  m,
	})
	if err != nil {
		return err
	}

	loginLimiter := ratelimit.New(cfg.LoginRateLimit, cfg.LoginRateBurst, rateLimitCacheSize, rateLimitIdleTTL)
	router := myHttp.NewRouter(myHttp.RouterDeps{
		Handler:      myHttp.NewHandler(svc, cfg.ProjectName, logger),
		Resolver:     svc,
		APIPrefix:    cfg.APIPrefix,
		Gatherer:     prometheus.DefaultGatherer,
		LoginLimiter: loginLimiter,
		Logger:       logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		loginLimiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return server.StartHTTPServer(gctx, cfg, router, logger)
	})

	if cfg.GRPCAddress != "" {
		hs := health.NewServer()
		updater := myGrpc.NewHealthUpdater(hs, map[string]myGrpc.Check{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"cache":    kv.Ping,
		}, healthTimeout, logger)
		grpcLimiter := ratelimit.New(grpcRateLimit, grpcRateBurst, rateLimitCacheSize, rateLimitIdleTTL)

		g.Go(func() error {
			updater.Run(gctx, healthInterval)
			return nil
		})
		g.Go(func() error {
			grpcLimiter.Run(gctx)
			return nil
		})
		g.Go(func() error {
			return server.StartGRPCServer(gctx, cfg, hs, grpcLimiter, logger)
		})
	}

	err = g.Wait()
	if err != nil {
		logger.Error("server terminated", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
