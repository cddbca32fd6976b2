package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskdeck/taskdeck/internal/api/rest"
	"github.com/taskdeck/taskdeck/internal/api/rest/handlers"
	"github.com/taskdeck/taskdeck/internal/queue"
	"github.com/taskdeck/taskdeck/internal/repository/postgres"
	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/internal/websocket"
	"github.com/taskdeck/taskdeck/internal/workers"
	"github.com/taskdeck/taskdeck/pkg/auth"
	"github.com/taskdeck/taskdeck/pkg/config"
	"github.com/taskdeck/taskdeck/pkg/database"
	"github.com/taskdeck/taskdeck/pkg/logger"
	"github.com/taskdeck/taskdeck/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	logger.SetDefault(log)
	log.Info("Starting TaskDeck schedule API",
		logger.String("version", cfg.App.Version),
		logger.String("environment", cfg.App.Environment),
	)

	// Initialize PostgreSQL
	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Initialize Redis
	redis, err := database.NewRedisClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()

	// Initialize metrics
	m := metrics.New()

	// Initialize repositories and services
	scheduleRepo := postgres.NewScheduleRepository(db)
	scheduleService := services.NewScheduleService(scheduleRepo, log)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret)
	if cfg.Auth.JWTSecret == "" && len(cfg.Auth.APIKeyHashes) == 0 {
		log.Warn("No JWT secret or API key hashes configured, API authentication is disabled (development only)")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(redis.Client, log.Logger)
	if err := hub.Start(); err != nil {
		return fmt.Errorf("failed to start websocket hub: %w", err)
	}
	defer hub.Stop()

	// Initialize trigger queue and scheduler worker
	triggerQueue := queue.NewTriggerQueue(redis, cfg.Scheduler.QueueKey, m)

	var schedulerWorker *workers.SchedulerWorker
	if cfg.Scheduler.Enabled {
		schedulerWorker = workers.NewSchedulerWorker(
			scheduleService,
			triggerQueue,
			redis,
			hub,
			m,
			log,
			cfg.Scheduler.CheckInterval,
			cfg.Scheduler.LockTTL,
		)

		workerCtx, cancelWorker := context.WithCancel(context.Background())
		defer cancelWorker()
		schedulerWorker.Start(workerCtx)
	}

	// Initialize handlers
	h := handlers.NewHandlers(
		log,
		scheduleService,
		hub,
		m,
		&handlers.HealthCheckers{
			DB:    db,
			Redis: redis,
		},
		cfg.App.Version,
	)

	// Initialize router
	router := rest.NewRouter(cfg, log, h, jwtManager, m)
	router.SetupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("API server listening", logger.String("address", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		// Stop background workers first
		if schedulerWorker != nil {
			schedulerWorker.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
