package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/employee-service/internal/api/http"
	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/cache"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/persistence"
	"github.com/spec-kit/employee-service/internal/repository"
	"github.com/spec-kit/employee-service/internal/service"
	"github.com/spec-kit/employee-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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
	logger = logger.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	checks := []handlers.DependencyCheck{}
	var employeeRepo repository.EmployeeRepository
	if pool != nil {
		employeeRepo = repository.NewEmployeeRepository(pool)
		checks = append(checks, handlers.DependencyCheck{Name: "postgres", Pinger: pg})
	} else {
		logger.Warn("using in-memory employee store; data is lost on restart")
		employeeRepo = repository.NewMemoryEmployeeRepository()
	}

	deps := service.EmployeeDependencies{
		EmployeeRepo: employeeRepo,
		Logger:       logger,
	}
	if client := redis.ClientHandle(); client != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Pinger: redis})
		if employeeCache := cache.NewEmployeeCache(client, cfg.Redis.CacheTTL()); employeeCache != nil {
			deps.Cache = employeeCache
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	deps.Dispatcher = dispatcher

	var (
		webhook *worker.WebhookWorker
		sink    service.EventSink
	)
	if cfg.Notification.WebhookURL != "" {
		webhook = worker.NewWebhookWorker(cfg.Notification, logger)
		sink = webhook
	}
	notificationService := service.NewNotificationService(dispatcher, logger, sink)
	worker.StartNotificationWorker(notificationService, webhook)

	employeeService := service.NewEmployeeService(deps)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.HTTP, cfg.App.RequestTimeout())

	routes := httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, logger, checks...),
		Employees: handlers.NewEmployeesHandler(employeeService, cfg.App.BaseURL),
		Metrics:   handlers.NewMetricsHandler(metrics),
		RateLimit: httptransport.RateLimiter(cfg.HTTP.RateLimitMax, cfg.HTTP.RateLimitWindow()),
	}
	if cfg.Auth.Enabled {
		authService := service.NewAuthService(cfg.Auth)
		routes.Auth = handlers.NewAuthHandler(authService)
		routes.AuthMiddleware = auth.NewAuthMiddleware(authService.TokenManager(), cfg.Auth.AdminEmail)
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("fiber shutdown", zap.Error(err))
	}
	if webhook != nil {
		if err := webhook.Stop(shutdownCtx); err != nil {
			logger.Warn("webhook worker did not drain", zap.Error(err))
		}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
