package audit

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes every event as a structured log line.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("audit")}
}

func (l *LogSink) Publish(_ context.Context, ev Event) error {
	l.log.Info(ev.Action,
		zap.Uint("business_id", ev.BusinessID),
		zap.String("entity", ev.Entity),
		zap.Uint("entity_id", ev.EntityID),
		zap.String("description", ev.Description),
		zap.Time("occurred_at", ev.OccurredAt),
	)
	return nil
}
