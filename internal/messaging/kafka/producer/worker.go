package producer

import (
	"context"
	"time"

	"oklok/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const pendingBatchSize = 50

// ProcessOutboxEvents drains the ledger outbox on a fixed interval until
// the context is cancelled. Failures are marked for retry and never stop
// the loop.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := drainPending(ctx, repo, writer, log); err != nil {
				log.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

func drainPending(ctx context.Context, repo kafka.OutboxRepository, writer *kafkago.Writer, log *zap.Logger) error {
	events, err := repo.ListPending(ctx, pendingBatchSize)
	if err != nil || len(events) == 0 {
		return err
	}

	log.Info("draining outbox batch", zap.Int("count", len(events)))
	for _, event := range events {
		deliverEvent(ctx, repo, writer, log, event)
	}
	return nil
}

func deliverEvent(ctx context.Context, repo kafka.OutboxRepository, writer *kafkago.Writer, log *zap.Logger, event kafka.OutboxEvent) {
	fields := []zap.Field{
		zap.String("outbox_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("topic", event.Topic),
	}

	if err := publishEvent(ctx, writer, event); err != nil {
		log.Error("publish outbox event failed", append(fields, zap.Error(err))...)
		_ = repo.MarkFailed(ctx, event.ID, err.Error())
		return
	}

	if err := repo.MarkSent(ctx, event.ID); err != nil {
		log.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
		return
	}

	log.Info("outbox event sent", fields...)
}
