package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamewise/wishlist-api/internal/config"
	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/gamewise/wishlist-api/internal/logger"
	"github.com/gamewise/wishlist-api/internal/middleware"
	"github.com/gamewise/wishlist-api/internal/queue"
	"github.com/gamewise/wishlist-api/internal/recommend"
	"github.com/gamewise/wishlist-api/internal/services/steam"
	"github.com/gamewise/wishlist-api/internal/workers"
	"go.uber.org/zap"
)

const scheduleInterval = 1 * time.Hour

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.New(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Redis backs the Steam response cache
	redisConn, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisConn.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Initialize RabbitMQ queue
	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	// Initialize repositories and services
	userRepo := database.NewUserRepository(db)
	libraryRepo := database.NewLibraryRepository(db)
	wishlistRepo := database.NewWishlistRepository(db)
	activityRepo := database.NewUserActivityRepository(db)

	steamCache := steam.NewCache(redisConn.Client())
	steamClient := steam.NewClient(cfg.SteamAPIKey, steamCache, zapLogger)
	recommender := recommend.NewService(libraryRepo, wishlistRepo, zapLogger)

	// Job processors
	syncer := workers.NewLibrarySyncer(steamClient, userRepo, libraryRepo, activityRepo, jobQueue, zapLogger)
	refresher := workers.NewPriceRefresher(steamClient, wishlistRepo, activityRepo, jobQueue, zapLogger)
	rescorer := workers.NewRescorer(recommender, zapLogger)
	dispatcher := workers.NewDispatcher(syncer, refresher, rescorer, jobQueue, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Periodic refresh scheduling for recently active users
	scheduler := workers.NewScheduler(jobQueue, activityRepo, scheduleInterval, zapLogger)
	go func() {
		if err := scheduler.Start(ctx); err != nil && err != context.Canceled {
			zapLogger.Error("scheduler_stopped_with_error", zap.Error(err))
		}
	}()

	// DLQ garbage collection runs in the worker too so a lone worker
	// deployment still sweeps dead letters
	dlqGC := queue.NewGarbageCollector(jobQueue, 1*time.Hour, 24*time.Hour, zapLogger)
	go func() {
		if err := dlqGC.Start(ctx); err != nil && err != context.Canceled {
			zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
		}
	}()

	// Start consuming messages
	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}

	zapLogger.Info("worker_started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}

				if err := dispatcher.ProcessJob(ctx, msg); err != nil {
					zapLogger.Error("job_processing_failed",
						zap.Error(err),
						zap.String("job_id", msg.GetJob().ID.String()),
						zap.String("job_type", string(msg.GetJob().Type)),
					)
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	<-sigChan
	zapLogger.Info("shutdown_signal_received")

	cancel()

	zapLogger.Info("worker_stopped")
}
