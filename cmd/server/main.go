package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oranjParker/mlapi/internal/api/inference"
	"github.com/oranjParker/mlapi/internal/config"
	"github.com/oranjParker/mlapi/internal/core"
	"github.com/oranjParker/mlapi/internal/database"
	"github.com/oranjParker/mlapi/internal/llm_provider"
	"github.com/oranjParker/mlapi/internal/sink"
	"golang.org/x/net/netutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

type AppDependencies struct {
	Provider llm_provider.Provider
	Notifier core.Sink[*core.ScrapeNotification]
	Nats     *database.NatsConn
}

func (d *AppDependencies) Close() {
	if d.Notifier != nil {
		if err := d.Notifier.Close(); err != nil {
			log.Printf("[Server] Notifier close error: %v", err)
		}
	}
	if d.Nats != nil {
		d.Nats.Close()
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	deps, err := setupDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	return runWithDeps(ctx, cfg, deps)
}

// setupDependencies wires the notification chain. The collaborator callback is
// always first; broker mirrors are added only when configured and must be
// reachable at start. Every sink in the chain is bounded by CallbackTimeout.
func setupDependencies(ctx context.Context, cfg *config.Config) (*AppDependencies, error) {
	notifier := sink.NewFanoutSink[*core.ScrapeNotification](cfg.CallbackTimeout)
	notifier.Add("http", sink.NewHTTPSink(cfg.ScrapeCallbackURL, cfg.CallbackTimeout))

	deps := &AppDependencies{
		Provider: llm_provider.NewMockProvider(cfg.ProcessingDelay),
		Notifier: notifier,
	}

	if cfg.NatsURL != "" {
		nt, err := database.NewNatsConnection(cfg.NatsURL)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Nats = nt
		if err := nt.EnsureStream(cfg.NatsSubject); err != nil {
			deps.Close()
			return nil, err
		}
		notifier.Add("nats", sink.NewNatsSink(nt.JS, cfg.NatsSubject))
		log.Printf("[Init] Mirroring scrape notifications to NATS subject %s", cfg.NatsSubject)
	}

	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			deps.Close()
			return nil, err
		}
		notifier.Add("redis", sink.NewRedisSink(rdb, cfg.RedisChannel))
		log.Printf("[Init] Mirroring scrape notifications to Redis channel %s", cfg.RedisChannel)
	}

	log.Printf("[Init] Scrape notifications go to %d sink(s)", notifier.Len())

	return deps, nil
}

func runWithDeps(ctx context.Context, cfg *config.Config, deps *AppDependencies) error {
	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}
	lis = netutil.LimitListener(lis, cfg.MaxConnections)

	svc := inference.NewService(deps.Provider, deps.Notifier)
	httpServer := &http.Server{
		Handler:           svc.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	if cfg.GRPCPort != "" {
		grpcLis, err := net.Listen("tcp", cfg.Host+":"+cfg.GRPCPort)
		if err != nil {
			lis.Close()
			return fmt.Errorf("failed to listen on gRPC port %s: %w", cfg.GRPCPort, err)
		}

		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

		go func() {
			log.Printf("[Server] Starting gRPC health server on %s", grpcLis.Addr())
			if err := grpcServer.Serve(grpcLis); err != nil {
				log.Printf("[Server] gRPC server stopped: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s (POST /process, GET /health)", lis.Addr())
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Println("[Server] Shutting down...")
	case serveErr = <-errCh:
	}

	if healthServer != nil {
		healthServer.Shutdown()
	}

	// In-flight requests can take the processing delay plus one callback
	// timeout per sink.
	sinks := 1
	if f, ok := deps.Notifier.(*sink.FanoutSink[*core.ScrapeNotification]); ok {
		sinks = f.Len()
	}
	grace := cfg.ProcessingDelay + time.Duration(sinks)*cfg.CallbackTimeout + 5*time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] HTTP shutdown error: %v", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	if serveErr != nil {
		return fmt.Errorf("http server failed: %w", serveErr)
	}
	log.Println("[Server] Stopped")
	return nil
}
