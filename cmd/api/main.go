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
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/repository/memory"
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

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo      repository.UserRepository
		inviteRepo    repository.InviteRepository
		signatureRepo repository.SignatureRepository
		paymentRepo   repository.PaymentDocumentRepository
		trainingRepo  repository.TrainingRepository
		auditRepo     repository.AuditLogRepository
	)
	if pool != nil {
		userRepo = repository.NewUserRepository(pool)
		inviteRepo = repository.NewInviteRepository(pool)
		signatureRepo = repository.NewSignatureRepository(pool)
		paymentRepo = repository.NewPaymentDocumentRepository(pool)
		trainingRepo = repository.NewTrainingRepository(pool)
		auditRepo = repository.NewAuditLogRepository(pool)
	} else {
		logger.Warn("running with in-memory stores; data will not survive restarts")
		userRepo = memory.NewUserStore()
		inviteRepo = memory.NewInviteStore()
		signatureRepo = memory.NewSignatureStore()
		paymentRepo = memory.NewPaymentDocumentStore()
		trainingRepo = memory.NewTrainingStore()
		auditRepo = memory.NewAuditLogStore()
	}

	dispatcher := events.NewInMemoryDispatcher()

	auditService := service.NewAuditService(auditRepo, dispatcher, logger)
	worker.StartAuditWorker(auditService)

	emailService := service.NewEmailService(logger, cfg.Email, cfg.Invite)
	statusCache := service.NewStatusCache(redis.Client, logger, cfg.Invite.StatusCacheTTL())

	inviteService := service.NewInviteService(cfg.Invite, service.InviteDependencies{
		InviteRepo: inviteRepo,
		UserRepo:   userRepo,
		Sender:     emailService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	onboardingService := service.NewOnboardingService(service.OnboardingDependencies{
		InviteRepo:    inviteRepo,
		UserRepo:      userRepo,
		SignatureRepo: signatureRepo,
		PaymentRepo:   paymentRepo,
		TrainingRepo:  trainingRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
		Cache:         statusCache,
		BcryptCost:    cfg.Auth.BcryptCost,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Hiring:         handlers.NewHiringHandler(inviteService, cfg.Invite.BulkMaxRows),
		Onboarding:     handlers.NewOnboardingHandler(inviteService, onboardingService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
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
