package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	notificationmock "github.com/riskibarqy/skate-fantasy/internal/mocks/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

func TestNotificationDispatcher_DeliveryFailureIsSwallowed(t *testing.T) {
	sink := notificationmock.NewSink(t)
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(n notification.Notification) bool { return n.ID == "n-1" })).
		Return(errors.New("webhook down")).
		Once()
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(n notification.Notification) bool { return n.ID == "n-2" })).
		Return(nil).
		Once()

	dispatcher := NewNotificationDispatcher(sink, 1, logging.NewNop())
	done := dispatcher.Dispatch(t.Context(), []notification.Notification{
		{ID: "n-1", PlayerID: "p1", Kind: notification.KindReplacementGranted},
		{ID: "n-2", PlayerID: "p2", Kind: notification.KindReplacementGranted},
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch did not finish")
	}
}

func TestNotificationDispatcher_NoSink(t *testing.T) {
	dispatcher := NewNotificationDispatcher(nil, 0, nil)
	select {
	case <-dispatcher.Dispatch(t.Context(), []notification.Notification{{ID: "n-1"}}):
	default:
		t.Fatalf("expected closed channel without a sink")
	}
}

func TestNotificationDispatcher_DrainWaitsForDeliveries(t *testing.T) {
	release := make(chan struct{})
	sink := notificationmock.NewSink(t)
	sink.On("Deliver", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil).
		Once()

	dispatcher := NewNotificationDispatcher(sink, 1, logging.NewNop())
	done := dispatcher.Dispatch(t.Context(), []notification.Notification{{ID: "n-1", PlayerID: "p1"}})

	shortCtx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	err := dispatcher.Drain(shortCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error while delivery is blocked, got %v", err)
	}
	if !strings.Contains(err.Error(), "1 still pending") {
		t.Fatalf("expected pending count in error, got %v", err)
	}

	close(release)
	if err := dispatcher.Drain(t.Context()); err != nil {
		t.Fatalf("drain after release: %v", err)
	}
	select {
	case <-done:
	default:
		t.Fatalf("dispatch channel should be closed after drain")
	}
}

func TestNotificationDispatcher_DrainIdle(t *testing.T) {
	if err := NewNotificationDispatcher(nil, 0, nil).Drain(t.Context()); err != nil {
		t.Fatalf("idle drain: %v", err)
	}
	var nilDispatcher *NotificationDispatcher
	if err := nilDispatcher.Drain(t.Context()); err != nil {
		t.Fatalf("nil drain: %v", err)
	}
}
