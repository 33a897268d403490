package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamifyhq/gamify/internal/action"
	"github.com/gamifyhq/gamify/internal/audit"
	"github.com/gamifyhq/gamify/internal/auth"
	"github.com/gamifyhq/gamify/internal/bootstrap"
	"github.com/gamifyhq/gamify/internal/condition"
	"github.com/gamifyhq/gamify/internal/config"
	"github.com/gamifyhq/gamify/internal/database"
	"github.com/gamifyhq/gamify/internal/event"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/reward"
	"github.com/gamifyhq/gamify/internal/scheduler"
	"github.com/gamifyhq/gamify/internal/server"
	"github.com/gamifyhq/gamify/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)
	logger.Info("Configuration loaded", "port", cfg.Port, "environment", cfg.Environment)

	// Database
	dbPool, err := database.NewPool(cfg.GetDBConnString(), bootstrap.DBMaxConns, bootstrap.DBMaxConnIdleTime, bootstrap.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// Event bus and resilient publisher
	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize event system: %v", err)
	}

	// Repositories and services
	repos := bootstrap.InitializeRepositories(dbPool)

	auditService := audit.NewService(repos.Audit)
	evaluator := condition.NewService(repos.Actions)
	actionService := action.NewService(repos.Actions, publisher)
	eventService := event.NewService(repos.Events, publisher)
	rewardService := reward.NewService(repos.Rewards, repos.Grants, repos.Events, evaluator, publisher)

	// Bus subscribers
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:     eventBus,
		AuditService: auditService,
	}); err != nil {
		log.Fatalf("Failed to register event handlers: %v", err)
	}

	// Background jobs
	jobPool := worker.NewPool(bootstrap.JobWorkerCount, bootstrap.JobQueueSize)
	jobPool.Start()
	jobScheduler := scheduler.New(jobPool)
	jobScheduler.Schedule(bootstrap.AuditCleanupInterval, audit.NewCleanupJob(auditService, cfg.AuditRetentionDays))

	// HTTP server
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.TokenCacheSize, cfg.TokenCacheTTL)
	srv := server.NewServer(cfg.Port, cfg.RateLimit, verifier, dbPool, eventService, rewardService, actionService, auditService)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("Server failed", "error", err)
	case sig := <-quit:
		logger.Info("Shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          jobScheduler,
		WorkerPool:         jobPool,
		ResilientPublisher: publisher,
	})
}
