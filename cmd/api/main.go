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

	httptransport "github.com/spec-kit/life-bridge/internal/api/http"
	"github.com/spec-kit/life-bridge/internal/api/http/handlers"
	"github.com/spec-kit/life-bridge/internal/auth"
	"github.com/spec-kit/life-bridge/internal/config"
	"github.com/spec-kit/life-bridge/internal/events"
	"github.com/spec-kit/life-bridge/internal/lock"
	"github.com/spec-kit/life-bridge/internal/notify"
	"github.com/spec-kit/life-bridge/internal/observability"
	"github.com/spec-kit/life-bridge/internal/persistence"
	"github.com/spec-kit/life-bridge/internal/repository"
	"github.com/spec-kit/life-bridge/internal/repository/memory"
	"github.com/spec-kit/life-bridge/internal/service"
	"github.com/spec-kit/life-bridge/internal/worker"
)

const (
	memoryQueueSize = 1024
	shutdownTimeout = 15 * time.Second
	lockPrefix      = "lifebridge:lock:"
)

type repositories struct {
	users     repository.UserRepository
	requests  repository.BloodRequestRepository
	donations repository.DonationRepository
	pickups   repository.PickupRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
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

	var repos repositories
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pool := pg.PoolHandle()
		repos = repositories{
			users:     repository.NewUserRepository(pool),
			requests:  repository.NewBloodRequestRepository(pool),
			donations: repository.NewDonationRepository(pool),
			pickups:   repository.NewPickupRepository(pool),
		}
	} else {
		store := memory.NewStore()
		repos = repositories{
			users:     store.Users(),
			requests:  store.BloodRequests(),
			donations: store.Donations(),
			pickups:   store.Pickups(),
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		queue       notify.Queue
		memoryQueue *notify.MemoryQueue
		locker      lock.Locker
	)
	if redis.Enabled() {
		queue = notify.NewRedisQueue(redis.Client, cfg.Notification.QueueKey)
		locker = lock.NewRedisLocker(redis.Client, lockPrefix)
	} else {
		memoryQueue = notify.NewMemoryQueue(memoryQueueSize)
		queue = memoryQueue
		locker = lock.NewLocalLocker()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	notificationService := service.NewNotificationService(dispatcher, queue, repos.users, logger)
	notificationPool := worker.NewNotificationPool(cfg.Notification, queue, notify.NewSender(cfg.Notification, logger), logger, metrics)
	worker.StartNotificationWorker(ctx, notificationService, notificationPool)

	authService := service.NewAuthService(cfg.Auth, repos.users)
	requestService := service.NewRequestService(repos.requests, repos.users, dispatcher)
	donationService := service.NewDonationService(service.DonationDependencies{
		DonationRepo: repos.donations,
		UserRepo:     repos.users,
		RequestRepo:  repos.requests,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	pickupService := service.NewPickupService(service.PickupDependencies{
		PickupRepo:   repos.pickups,
		RequestRepo:  repos.requests,
		DonationRepo: repos.donations,
		UserRepo:     repos.users,
		Locker:       locker,
		LockTTL:      cfg.Pickup.LockTTL(),
		LockWait:     cfg.Pickup.LockWait(),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:     repos.users,
		RequestRepo:  repos.requests,
		DonationRepo: repos.donations,
		PickupRepo:   repos.pickups,
		Logger:       logger,
	})

	if err := adminService.EnsureDefaultAdmin(ctx, cfg.Bootstrap, cfg.Auth.BcryptCost); err != nil {
		logger.Error("default admin bootstrap failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Donations:      handlers.NewDonationsHandler(donationService),
		Pickups:        handlers.NewPickupsHandler(pickupService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.users),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if memoryQueue != nil {
		memoryQueue.Close()
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := notificationPool.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notification workers did not drain", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
