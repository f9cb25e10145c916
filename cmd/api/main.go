package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/api/http"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/api/http/handlers"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/auth"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/cache"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/config"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/events"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/observability"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/persistence"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/service"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	issueRepo := repository.NewIssueRepository(pool)
	itemRepo := repository.NewLostItemRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	issueService := service.NewIssueService(cfg.Policy, service.IssueDependencies{
		IssueRepo:  issueRepo,
		Dispatcher: dispatcher,
	})
	itemService := service.NewLostItemService(cfg.Policy, service.LostItemDependencies{
		ItemRepo:   itemRepo,
		Matcher:    service.NewMatchEngine(itemRepo),
		Dispatcher: dispatcher,
	})
	announcementService := service.NewAnnouncementService(announcementRepo)
	analyticsService := service.NewAnalyticsService(issueRepo, itemRepo, userRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()
	responseCache := cache.NewResponseCache(redis, logger, cfg.Cache.TTL(), cfg.Cache.Enabled)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	app.Use(httptransport.Recover(logger))
	app.Use(httptransport.RequestTimeout(cfg.App.RequestTimeout()))
	app.Use(observability.RequestLogger(logger, metrics))

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Auth:          authMiddleware,
		Cache:         responseCache,
		Users:         handlers.NewUsersHandler(authService),
		Issues:        handlers.NewIssuesHandler(issueService),
		LostItems:     handlers.NewLostItemsHandler(itemService),
		Announcements: handlers.NewAnnouncementsHandler(announcementService),
		Analytics:     handlers.NewAnalyticsHandler(analyticsService, issueService),
		Health:        handlers.NewHealthHandler(pg, redis, metrics),
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
