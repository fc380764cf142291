package notify

import (
	"context"

	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

// LogSink writes notifications to the log. Used when no webhook is configured.
type LogSink struct {
	logger *logging.Logger
}

func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger.Named("notify")}
}

func (s *LogSink) Deliver(ctx context.Context, n notification.Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"notification_id", n.ID,
		"kind", string(n.Kind),
		"player_id", n.PlayerID,
		"contest_id", n.ContestID,
		"skater_id", n.SkaterID,
		"message", n.Message,
	)
	return nil
}
