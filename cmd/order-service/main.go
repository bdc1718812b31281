package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/jcmexdev/mochi-storefront/internal/order-service/app"
	"github.com/jcmexdev/mochi-storefront/internal/order-service/orderlog/sqlite"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/cache"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/config"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/telemetry"
)

func main() {
	cfg := config.LoadOrderService()
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(cfg.OrderLogPath), 0o755); err != nil {
		slog.Error("failed to create order log directory", "path", cfg.OrderLogPath, "error", err)
		os.Exit(1)
	}
	repo, err := sqlite.Open(cfg.OrderLogPath)
	if err != nil {
		slog.Error("failed to open order log", "path", cfg.OrderLogPath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	// Without Redis every delivery is recorded, retries included.
	var claims cache.Cache
	if cfg.RedisAddr != "" {
		claims = cache.NewRedisCache(cfg.RedisAddr, "order")
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := claims.Ping(pingCtx); err != nil {
			slog.Warn("redis not reachable yet, claims will fail until it is", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
	} else {
		slog.Warn("REDIS_ADDR not set, duplicate deliveries will not be detected")
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.Addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	deliveryrpc.RegisterOrderDeliveryServer(grpcServer, app.NewDeliveryServer(claims, repo, cfg.ClaimTTL))

	go func() {
		<-ctx.Done()
		slog.Info("shutting down order service")
		grpcServer.GracefulStop()
	}()

	slog.Info("order service gRPC running", "addr", cfg.Addr, "order_log", cfg.OrderLogPath)

	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
