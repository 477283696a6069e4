package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"tableorder-analytics/internal/config"
	"tableorder-analytics/internal/db"
	"tableorder-analytics/internal/logger"
	"tableorder-analytics/internal/queue"
	"tableorder-analytics/internal/reports"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	service := reports.New(pool, cfg, log)

	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required: checkout events drive analytics derivation")
	}

	queueClient, err := queue.New(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal("rabbitmq connection failed", zap.Error(err))
	}
	defer queueClient.Close()

	if err := queue.EnsureAnalyticsTopology(ctx, queueClient); err != nil {
		log.Fatal("rabbitmq topology failed", zap.Error(err))
	}

	if cfg.WorkerMode == "daemon" {
		log.Info("checkout consumer enabled",
			zap.String("exchange", queue.EventsExchange),
			zap.String("queue", queue.AnalyticsQueue))
		go func() {
			err := queueClient.ConsumeWithRetry(ctx, queue.AnalyticsQueue, func(ctx context.Context, body []byte) error {
				return queue.ProcessOrderFinished(ctx, service, log, body)
			}, cfg.ConsumerMaxRetries, cfg.ConsumerRetryDelay)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("consumer stopped", zap.Error(err))
			}
		}()
	} else {
		log.Info("checkout consumer disabled", zap.String("mode", cfg.WorkerMode))
	}

	<-ctx.Done()

	log.Info("shutting down")
}
