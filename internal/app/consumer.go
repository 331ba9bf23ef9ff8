package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"oklok/internal/events"
	"oklok/internal/messaging/kafka/consumer"
	"oklok/internal/report"
	"oklok/internal/shared/connection"
	"oklok/internal/tenant"
	"oklok/internal/timeentry"
	"oklok/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer listens for entry lifecycle events and keeps the report
// caches honest.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	tenantService := tenant.NewService(tenant.NewRepository(gormDB), redisClient)
	reportService := report.NewService(
		timeentry.NewRepository(gormDB),
		user.NewRepository(gormDB),
		tenantService,
		redisClient,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.EntryCompletedTopic,
		GroupID:        "oklok-report-cache",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEntryLifecycle(ctx, reader, reportService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
