// Package main is the entry point for the anime-aggregator API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"anime-aggregator/internal/app/fallback"
	"anime-aggregator/internal/app/service"
	"anime-aggregator/internal/config"
	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider/registry"
	rediscache "anime-aggregator/internal/infra/redis"
	"anime-aggregator/internal/job"
	"anime-aggregator/internal/logger"
	"anime-aggregator/internal/transport/httpserver"
	"anime-aggregator/internal/validator"
	"anime-aggregator/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting anime-aggregator",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("primary", cfg.Provider.A.BaseURL),
		zap.String("backup", cfg.Provider.B.BaseURL),
	)

	// Create provider clients
	providers := registry.NewProviders(cfg.Provider, log.Logger)

	// Create services
	orchestrator := fallback.NewOrchestrator(providers.Primary, providers.Backup, log.Logger)
	animeSvc := service.NewAnimeService(orchestrator, service.BaseURLs{
		Primary: providers.Primary.BaseURL(),
		Backup:  providers.Backup.BaseURL(),
	}, log.Logger)
	librarySvc := service.NewLibraryService(providers.AniList, log.Logger)

	// Health state is shared through Redis when enabled, so a fleet of
	// instances reports one view and probes once per interval.
	var (
		store      domain.StatusStore       = domain.NewMemoryStatusStore()
		distLocker locker.DistributedLocker = locker.NewLocalLocker()
	)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)

		store = rediscache.NewStatusStore(redisClient, log.Logger, cfg.Redis.KeyPrefix)
		distLocker = locker.NewRedisLocker(redisClient, cfg.Redis.KeyPrefix, log.Logger)
	}

	healthSvc := service.NewHealthService(providers.HealthCheckers(), store, cfg.Health.StatusTTL, log.Logger)

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Name:      cfg.App.Name,
			Port:      cfg.App.Port,
			BodyLimit: 64 * 1024,
		},
		httpserver.Services{
			Anime:   animeSvc,
			Library: librarySvc,
			Health:  healthSvc,
		},
		validator.New(),
		log.Logger,
	)

	// Start health monitor
	var scheduler *job.HealthScheduler
	if cfg.Health.Enabled {
		scheduler = job.NewHealthScheduler(
			healthSvc,
			job.HealthConfig{
				Interval: cfg.Health.Interval,
				Timeout:  cfg.Health.Timeout,
				LockTTL:  cfg.Health.LockTTL,
			},
			log.Logger,
			distLocker,
		)
		scheduler.Start()
	} else {
		log.Info("health monitor disabled")
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
