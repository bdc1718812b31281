package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/config"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/infra/adapters/delivery"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/infra/httpx"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/session"
)

func main() {
	cfg := config.LoadStorefront()
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

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	deliveries, closers, err := buildDeliveries(cfg)
	if err != nil {
		slog.Error("failed to set up order delivery", "error", err)
		os.Exit(1)
	}
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	store := session.NewStore(cat, deliveries, session.WithNoticeDelay(cfg.NoticeDelay))
	router := httpx.NewRouter(httpx.NewHandler(cat, store))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("storefront HTTP running", "addr", cfg.HTTPAddr, "products", cat.Len(), "transports", cfg.DeliveryTransports)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		pruneIdleSessions(gctx, store, cfg.SessionMaxIdle)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("storefront stopped")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

const minPruneInterval = time.Second

// pruneInterval is a quarter of maxIdle, never below minPruneInterval.
func pruneInterval(maxIdle time.Duration) time.Duration {
	return max(maxIdle/4, minPruneInterval)
}

// pruneIdleSessions drops sessions unused for maxIdle.
func pruneIdleSessions(ctx context.Context, store *session.Store, maxIdle time.Duration) {
	ticker := time.NewTicker(pruneInterval(maxIdle))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.PruneIdle(maxIdle); n > 0 {
				slog.Info("pruned idle sessions", "count", n, "remaining", store.Len())
			}
		}
	}
}

// buildDeliveries assembles the configured transports. The returned closers
// release their connections on shutdown.
func buildDeliveries(cfg config.Storefront) (delivery.Fanout, []func() error, error) {
	var (
		out     delivery.Fanout
		closers []func() error
	)
	fail := func(err error) (delivery.Fanout, []func() error, error) {
		for _, c := range closers {
			_ = c()
		}
		return nil, nil, err
	}

	for _, transport := range cfg.DeliveryTransports {
		switch transport {
		case "log":
			out = append(out, delivery.NewLogDelivery(nil))
		case "grpc":
			conn, err := grpc.NewClient(cfg.OrderServiceAddr,
				grpc.WithTransportCredentials(insecure.NewCredentials()),
				grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
				grpc.WithUnaryInterceptor(interceptors.PropagateClientInterceptor()),
			)
			if err != nil {
				return fail(err)
			}
			closers = append(closers, conn.Close)
			out = append(out, delivery.NewGRPCDelivery(deliveryrpc.NewOrderDeliveryClient(conn)))
		case "amqp":
			conn, ch, err := delivery.SetupConn(cfg.AMQPURL)
			if err != nil {
				return fail(err)
			}
			closers = append(closers, ch.Close, conn.Close)
			out = append(out, delivery.NewAMQPDelivery(ch))
		case "whatsapp":
			out = append(out, delivery.NewWhatsAppDelivery(cfg.WhatsAppNumber, nil))
		default:
			slog.Warn("unknown delivery transport, ignoring", "transport", transport)
		}
	}
	return out, closers, nil
}
