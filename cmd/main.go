package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/handler"
	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/repository"
	"galapass/guesthub/internal/service"
	"galapass/guesthub/internal/worker"
	jwtpkg "galapass/guesthub/pkg/jwt"
	"galapass/guesthub/pkg/queue"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize state store and job queue (Redis or in-memory)
	var redisClient *redis.Client
	if cfg.State.Backend == "redis" || cfg.Queue.Backend == "redis" {
		redisClient, err = config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
	}

	var stateStore repository.StateStore
	switch cfg.State.Backend {
	case "redis":
		stateStore = repository.NewRedisStateStore(redisClient)
		logger.Info("using Redis state store")
	case "memory":
		stateStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory state store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	var jobQueue queue.Queue
	switch cfg.Queue.Backend {
	case "redis":
		jobQueue = queue.NewRedisQueue(redisClient, logger)
		logger.Info("using Redis job queue")
	case "memory":
		jobQueue = queue.NewMemoryQueue(logger)
		logger.Info("using in-memory job queue")
	default:
		logger.Fatal("unknown queue backend", zap.String("backend", cfg.Queue.Backend))
	}

	// 6. Initialize repositories
	guestRepo := repository.NewPGGuestRepository(db)
	categoryRepo := repository.NewPGCategoryRepository(db)
	templateRepo := repository.NewPGTemplateRepository(db)

	// 7. Initialize JWT manager
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.SigningKey,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)

	// 8. Initialize mail sender (log-only when SMTP is not configured)
	var sender service.MailSender
	if cfg.SMTP.Host != "" {
		sender, err = service.NewSMTPSender(cfg.SMTP)
		if err != nil {
			logger.Fatal("failed to init smtp sender", zap.Error(err))
		}
		logger.Info("SMTP sender initialized", zap.String("host", cfg.SMTP.Host))
	} else {
		sender = service.NewLogSender(logger)
		logger.Warn("SMTP not configured, emails will only be logged")
	}

	// 9. Initialize services
	authService := service.NewAuthService(cfg.Admin, cfg.JWT, jwtManager, stateStore, logger)
	guestService := service.NewGuestService(guestRepo, categoryRepo, stateStore, cfg.RSVP, logger)
	categoryService := service.NewCategoryService(categoryRepo, stateStore, cfg.RSVP.DefaultCategory, logger)
	invitationService := service.NewInvitationService(guestRepo, templateRepo, jobQueue, sender, cfg.Event, cfg.Invitation, logger)
	checkInService := service.NewCheckInService(guestRepo, logger)
	sessionManager := service.NewScanSessionManager(checkInService, service.FacingMode(cfg.Scanner.DefaultFacingMode), logger)

	// 10. Seed default categories
	if err := categoryService.SeedDefaults(context.Background()); err != nil {
		logger.Fatal("failed to seed categories", zap.Error(err))
	}

	// 11. Start the invitation worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	invitationWorker := worker.NewInvitationWorker(
		jobQueue, invitationService,
		cfg.Invitation.MaxRetries, cfg.Invitation.RetryDelay,
		logger,
	)
	go invitationWorker.Run(workerCtx)

	// 12. Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	rsvpHandler := handler.NewRSVPHandler(guestService, invitationService, cfg.Event, logger)
	guestHandler := handler.NewGuestHandler(guestService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	scannerHandler := handler.NewScannerHandler(sessionManager, logger)

	// 13. Setup router
	router := handler.NewRouter(handler.RouterDeps{
		Config:            cfg,
		Logger:            logger,
		JWTManager:        jwtManager,
		AuthHandler:       authHandler,
		RSVPHandler:       rsvpHandler,
		GuestHandler:      guestHandler,
		CategoryHandler:   categoryHandler,
		InvitationHandler: invitationHandler,
		ScannerHandler:    scannerHandler,
	})

	// 14. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 15. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 16. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
