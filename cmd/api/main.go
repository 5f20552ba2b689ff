package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-service/internal/api/http"
	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/render"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
	"github.com/spec-kit/crm-service/internal/worker"
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

	renderer := render.NewRenderer()
	if err := renderer.Load(cfg.Web.TemplatesDir); err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	revocation := auth.NewRedisRevocationStore(redis.Client)
	statsCache := persistence.NewRedisStatsCache(redis.Client, cfg.Redis.StatsTTL(), logger)

	authService := service.NewAuthService(cfg.Auth, userRepo, revocation)
	orderService := service.NewOrderService(orderRepo, customerRepo, dispatcher)
	customerService := service.NewCustomerService(customerRepo, dispatcher)
	dashboardService := service.NewDashboardService(orderRepo, customerRepo, statsCache, logger)
	dashboardService.RegisterInvalidation(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager(), userRepo, revocation, cfg.Auth.CookieName)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, renderer, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(pg, redis),
		Auth:      handlers.NewAuthHandler(authService, userRepo, renderer, cfg.Auth),
		Dashboard: handlers.NewDashboardHandler(dashboardService, customerService, renderer),
		Customers: handlers.NewCustomersHandler(customerService, orderService, renderer),
		Orders:    handlers.NewOrdersHandler(orderService, productRepo, renderer),
		Products:  handlers.NewProductsHandler(productRepo, renderer),
		Session:   sessionMiddleware,
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
