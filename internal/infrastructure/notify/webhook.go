package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/observability"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/skate-fantasy/internal/platform/resilience"
)

var errWebhookTransient = errors.New("notification webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookSink posts each notification as JSON to a configured endpoint.
type WebhookSink struct {
	client  *http.Client
	url     string
	token   string
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewWebhookSink(cfg WebhookConfig, logger *logging.Logger) (*WebhookSink, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_WEBHOOK_URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookSink{
		client:  &http.Client{Timeout: timeout},
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		breaker: resilience.NewCircuitBreakerFromConfig("notify_webhook", cfg.CircuitBreaker, observability.CircuitStateListener(logger)),
		logger:  logger.Named("notify"),
	}, nil
}

type webhookPayload struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	PlayerID  string    `json:"player_id"`
	ContestID string    `json:"contest_id"`
	SkaterID  string    `json:"skater_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *WebhookSink) Deliver(ctx context.Context, n notification.Notification) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	stream := jsoniter.ConfigFastest.BorrowStream(buf)
	stream.WriteVal(webhookPayload{
		ID:        n.ID,
		Kind:      string(n.Kind),
		PlayerID:  n.PlayerID,
		ContestID: n.ContestID,
		SkaterID:  n.SkaterID,
		Message:   n.Message,
		CreatedAt: n.CreatedAt.UTC(),
	})
	err := stream.Flush()
	encodeErr := stream.Error
	jsoniter.ConfigFastest.ReturnStream(stream)
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", n.ID, err)
	}
	if encodeErr != nil {
		return fmt.Errorf("encode notification %s: %w", n.ID, encodeErr)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notification.id", n.ID),
			attribute.String("notification.kind", string(n.Kind)),
			attribute.String("notification.webhook_url", s.url),
		)
	}

	err = s.breaker.Execute(func() error {
		return s.post(ctx, n.ID, buf.B)
	}, isCircuitFailure)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "notification delivered", "notification_id", n.ID, "player_id", n.PlayerID)
	return nil
}

func (s *WebhookSink) post(ctx context.Context, id string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", id)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post notification %s: %v", errWebhookTransient, id, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: post notification %s status=%d body=%s", errWebhookTransient, id, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return fmt.Errorf("post notification %s status=%d body=%s", id, resp.StatusCode, strings.TrimSpace(string(raw)))
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, errWebhookTransient)
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", fmt.Errorf("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", candidate, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("%q has empty host", candidate)
	}

	return candidate, nil
}
