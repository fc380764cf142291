package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/observability"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

const defaultNotifyWorkers = 4

// NotificationDispatcher hands persisted notifications to the sink after the
// owning transaction commits. Delivery failures are logged and dropped.
type NotificationDispatcher struct {
	sink    notification.Sink
	workers int
	logger  *logging.Logger

	inflight sync.WaitGroup
	pending  atomic.Int64
}

func NewNotificationDispatcher(sink notification.Sink, workers int, logger *logging.Logger) *NotificationDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultNotifyWorkers
	}
	return &NotificationDispatcher{sink: sink, workers: workers, logger: logger}
}

// Dispatch returns immediately. The returned channel is closed once every
// delivery attempt has finished.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, items []notification.Notification) <-chan struct{} {
	done := make(chan struct{})
	if d == nil || d.sink == nil || len(items) == 0 {
		close(done)
		return done
	}

	ctx = context.WithoutCancel(ctx)
	d.pending.Add(int64(len(items)))
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer close(done)

		p := pool.New().WithMaxGoroutines(d.workers)
		for _, item := range items {
			item := item
			p.Go(func() {
				defer d.pending.Add(-1)
				err := d.sink.Deliver(ctx, item)
				observability.NotificationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
				if err != nil {
					d.logger.WarnContext(ctx, "notification delivery failed",
						"notification_id", item.ID,
						"player_id", item.PlayerID,
						"kind", string(item.Kind),
						"error", err,
					)
				}
			})
		}
		p.Wait()
	}()

	return done
}

// Drain waits for deliveries started by Dispatch. When ctx ends first the
// remaining notifications are abandoned and counted in the returned error.
func (d *NotificationDispatcher) Drain(ctx context.Context) error {
	if d == nil {
		return nil
	}
	finished := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		left := d.pending.Load()
		d.logger.WarnContext(ctx, "notification drain interrupted", "pending", left)
		return fmt.Errorf("drain notifications: %d still pending: %w", left, ctx.Err())
	}
}
