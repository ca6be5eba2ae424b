package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-market/marketplace-service/internal/api/http"
	"github.com/campus-market/marketplace-service/internal/api/http/handlers"
	"github.com/campus-market/marketplace-service/internal/auth"
	"github.com/campus-market/marketplace-service/internal/blob"
	"github.com/campus-market/marketplace-service/internal/config"
	"github.com/campus-market/marketplace-service/internal/docstore"
	"github.com/campus-market/marketplace-service/internal/events"
	"github.com/campus-market/marketplace-service/internal/observability"
	"github.com/campus-market/marketplace-service/internal/persistence"
	"github.com/campus-market/marketplace-service/internal/repository"
	"github.com/campus-market/marketplace-service/internal/service"
	"github.com/campus-market/marketplace-service/internal/worker"
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

	store := docstore.NewPostgresStore(pg.PoolHandle())
	blobStore, err := blob.NewDiskStore(cfg.Blob.Dir, cfg.Blob.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to init blob store", zap.Error(err))
	}

	listingRepo := repository.NewListingRepository(store)
	interestRepo := repository.NewInterestRepository(store)
	profileRepo := repository.NewProfileRepository(store)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	nativeRange := cfg.Docstore.NativeRange && store.Capabilities().NativeRange
	listingService := service.NewListingService(service.ListingDependencies{
		ListingRepo: listingRepo,
		BlobStore:   blobStore,
		Dispatcher:  dispatcher,
		Logger:      logger,
		NativeRange: nativeRange,
	})
	interestService := service.NewInterestService(service.InterestDependencies{
		InterestRepo: interestRepo,
		ListingRepo:  listingRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	profileService := service.NewProfileService(profileRepo)
	statsService := service.NewStatsService(listingRepo, interestRepo)

	var verifier auth.Verifier = auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	if ttl := cfg.Auth.VerifyCacheTTL(); ttl > 0 {
		verifier = auth.NewCachingVerifier(verifier, redis.Client, ttl, logger)
	}
	gate := auth.NewGate(verifier, cfg.Auth.AllowedDomains, cfg.App.IsProduction(), logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{BodyLimit: int(cfg.Blob.MaxUploadBytes) * 2})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.CORSOrigins, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.App.Env, pg, redis),
		Metrics:    handlers.NewMetricsHandler(metrics),
		Listings:   handlers.NewListingsHandler(listingService, interestService, cfg.Blob.MaxUploadBytes),
		Interests:  handlers.NewInterestsHandler(interestService),
		Users:      handlers.NewUsersHandler(profileService),
		Stats:      handlers.NewStatsHandler(statsService),
		AuthGate:   gate,
		StaticDir:  blobStore.Dir(),
		StaticPath: cfg.Blob.PublicPath,
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
