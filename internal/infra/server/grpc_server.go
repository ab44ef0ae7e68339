package server

import (
	"context"
	"errors"
	"net"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fastskeleton/backend/internal/adapters/transport/grpc/middleware"
	"github.com/fastskeleton/backend/internal/infra/config"
	"github.com/fastskeleton/backend/internal/infra/ratelimit"
)

const shutdownTimeout = 5 * time.Second

// NewGRPCServer builds the ops server: health, reflection and prometheus metrics behind the interceptor chain.
func NewGRPCServer(cfg *config.Config, hs *health.Server, limiter *ratelimit.PerKey, logger *zap.Logger) (*grpc.Server, error) {
	opts := []grpc.ServerOption{
		grpc.UnaryInterceptor(middleware.ChainUnaryServer(logger, limiter)),
		grpc.StreamInterceptor(middleware.ChainStreamServer(logger)),
	}
	if cfg.TLS() {
		creds, err := credentials.NewServerTLSFromFile(cfg.HTTPSCertFile, cfg.HTTPSKeyFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(grpcServer, hs)
	grpc_prometheus.Register(grpcServer)
	reflection.Register(grpcServer)
	return grpcServer, nil
}

// ServeGRPC serves on lis until ctx is cancelled, then stops gracefully within shutdownTimeout.
func ServeGRPC(ctx context.Context, grpcServer *grpc.Server, lis net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("ctx cancelled, stopping gRPC server")

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-time.After(shutdownTimeout):
		grpcServer.Stop()
	case <-done:
	}
	logger.Info("gRPC server stopped")
	return nil
}

// StartGRPCServer listens on cfg.GRPCAddress and serves until ctx is cancelled.
func StartGRPCServer(ctx context.Context, cfg *config.Config, hs *health.Server, limiter *ratelimit.PerKey, logger *zap.Logger) error {
	grpcServer, err := NewGRPCServer(cfg, hs, limiter, logger)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return err
	}
	return ServeGRPC(ctx, grpcServer, lis, logger)
}
