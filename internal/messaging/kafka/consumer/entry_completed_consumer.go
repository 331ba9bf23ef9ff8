package consumer

import (
	"context"
	"encoding/json"

	"oklok/internal/events"
	"oklok/internal/report"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEntryLifecycle drops the cached dashboard for a tenant whenever one
// of its time entries completes, so the next dashboard read reflects the
// fresh totals.
func ConsumeEntryLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	reportService report.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.entry_lifecycle")
	log.Info("entry lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("entry lifecycle consumer stopped")
				return
			}
			log.Error("fetch entry lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EntryCompletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode entry_completed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		reportService.InvalidateDashboard(ctx, event.TenantID)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit entry lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("dashboard cache invalidated from entry_completed event",
			zap.String("entry_id", event.EntryID),
			zap.String("tenant_id", event.TenantID),
		)
	}
}
