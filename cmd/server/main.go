package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"assetgate/internal/audit"
	"assetgate/internal/blobstore"
	"assetgate/internal/capture"
	"assetgate/internal/intake"
	intakehandler "assetgate/internal/intake/handler"
	intakemetrics "assetgate/internal/intake/metrics"
	"assetgate/internal/moderation"
	moderationhandler "assetgate/internal/moderation/handler"
	moderationmetrics "assetgate/internal/moderation/metrics"
	"assetgate/internal/platform/config"
	"assetgate/internal/platform/httpserver"
	"assetgate/internal/platform/logger"
	platformredis "assetgate/internal/platform/redis"
	"assetgate/internal/signer"
	"assetgate/internal/submission"
	httptransport "assetgate/internal/transport/http"
	"assetgate/internal/wizard"
)

// main wires the dependency graph and owns the process lifecycle. Business
// logic lives in the internal module packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, health, closeStore, err := openBlobstore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	sink, closeSink, err := openAuditSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	inbox := make(chan audit.Event, 256)
	publisher := audit.NewPublisher(audit.NewChannelSink(inbox))
	worker := audit.NewWorker(sink, inbox, log)

	jwtSigner, err := signer.NewJWTSigner(cfg.SigningKey, cfg.SigningIssuer)
	if err != nil {
		return err
	}

	registry := submission.NewRegistry(store, log)
	drafts := wizard.NewDraftStore(store, log)

	intakeService := intake.NewService(drafts, capture.NewNormalizer(), registry, nil, log, intakemetrics.New())
	engine := moderation.NewEngine(registry, jwtSigner, publisher, log, moderationmetrics.New())

	router := httptransport.NewRouter(health,
		intakehandler.New(intakeService, log),
		moderationhandler.New(engine, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting assetgate", "addr", cfg.Addr, "blobstore", cfg.Blobstore)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("assetgate stopped")
	return nil
}

// openBlobstore selects the persistence adapter from config. The returned
// health checker is nil for adapters without a liveness probe.
func openBlobstore(cfg config.Config, log *slog.Logger) (blobstore.Store, httptransport.HealthChecker, func(), error) {
	noop := func() {}
	switch cfg.Blobstore {
	case "memory":
		return blobstore.NewMemory(), nil, noop, nil
	case "sqlite":
		store, err := blobstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("open sqlite blobstore: %w", err)
		}
		return store, nil, func() { closeQuietly(store, log, "sqlite") }, nil
	case "redis":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("connect redis: %w", err)
		}
		if client == nil {
			return nil, nil, noop, fmt.Errorf("redis blobstore selected but ASSETGATE_REDIS_URL is empty")
		}
		return blobstore.NewRedis(client.Client), client, func() { closeQuietly(client, log, "redis") }, nil
	case "postgres":
		store, err := blobstore.OpenPostgres(cfg.Postgres)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("open postgres blobstore: %w", err)
		}
		return store, nil, func() { closeQuietly(store, log, "postgres") }, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown blobstore %q", cfg.Blobstore)
	}
}

// openAuditSink returns the Kafka sink when brokers are configured, falling
// back to the in-memory sink for local development.
func openAuditSink(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Sink, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("audit sink: memory (no kafka brokers configured)")
		return audit.NewMemorySink(), func() {}, nil
	}
	sink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect kafka audit sink: %w", err)
	}
	log.Info("audit sink: kafka", "topic", cfg.Kafka.Topic)
	return sink, sink.Close, nil
}

func closeQuietly(c interface{ Close() error }, log *slog.Logger, name string) {
	if err := c.Close(); err != nil {
		log.Warn("close failed", "component", name, "error", err)
	}
}
