package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/studyreview/pkg/models"
)

// Log writes reminders to the logger. Used when no bot token is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) NotifyDue(_ context.Context, userID uuid.UUID, summary models.ProgressSummary) error {
	l.log.Info(ReminderText(summary),
		zap.String("user_id", userID.String()),
		zap.Int("due", summary.Due),
	)
	return nil
}
