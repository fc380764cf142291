package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/skate-fantasy/internal/platform/resilience"
)

var testNotification = notification.Notification{
	ID:        "n-1",
	PlayerID:  "p1",
	ContestID: "c1",
	SkaterID:  "s1",
	Kind:      notification.KindReplacementGranted,
	Message:   "s1 withdrew; pick a replacement",
	CreatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
}

func TestWebhookSink_PostsNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hook-secret", r.Header.Get("Authorization"))
		assert.Equal(t, "n-1", r.Header.Get("Idempotency-Key"))

		var body map[string]any
		require.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "replacement_granted", body["kind"])
		assert.Equal(t, "p1", body["player_id"])
		assert.Equal(t, "s1", body["skater_id"])
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink, err := NewWebhookSink(WebhookConfig{URL: srv.URL, Token: "hook-secret"}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, sink.Deliver(context.Background(), testNotification))
}

func TestWebhookSink_BreakerStopsCallsAfterServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sink, err := NewWebhookSink(WebhookConfig{
		URL: srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())
	require.NoError(t, err)

	require.Error(t, sink.Deliver(context.Background(), testNotification))
	err = sink.Deliver(context.Background(), testNotification)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookSink_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	sink, err := NewWebhookSink(WebhookConfig{
		URL:            srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute},
	}, logging.NewNop())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.Error(t, sink.Deliver(context.Background(), testNotification))
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewWebhookSink_RejectsBadURL(t *testing.T) {
	_, err := NewWebhookSink(WebhookConfig{URL: "ftp://example.com/hook"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}
