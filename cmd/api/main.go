package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/maintenance-core/internal/api/http"
	"github.com/spec-kit/maintenance-core/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-core/internal/auth"
	"github.com/spec-kit/maintenance-core/internal/config"
	"github.com/spec-kit/maintenance-core/internal/events"
	"github.com/spec-kit/maintenance-core/internal/observability"
	"github.com/spec-kit/maintenance-core/internal/persistence"
	"github.com/spec-kit/maintenance-core/internal/service"
	"github.com/spec-kit/maintenance-core/internal/store"
	"github.com/spec-kit/maintenance-core/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	snapshots := persistence.NewSnapshotRepository(pg.PoolHandle(), logger)

	coreStore := store.New(store.Dependencies{
		Snapshots:  snapshots,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	coreStore.Load(ctx)

	notificationService := service.NewNotificationService(dispatcher, logger, redis, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	scenarioService := service.NewScenarioService(coreStore)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTLMinutes)
	sessionMiddleware := auth.NewSessionMiddleware(tokens)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Session:           handlers.NewSessionHandler(tokens),
		Tickets:           handlers.NewTicketsHandler(coreStore),
		Inventory:         handlers.NewInventoryHandler(coreStore),
		Procurement:       handlers.NewProcurementHandler(coreStore),
		Scenarios:         handlers.NewScenarioHandler(scenarioService, coreStore),
		SessionMiddleware: sessionMiddleware,
		Metrics:           metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
