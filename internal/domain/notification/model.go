package notification

import (
	"context"
	"time"
)

type Kind string

const KindReplacementGranted Kind = "replacement_granted"

// Notification is persisted with the state change that caused it and
// delivered afterwards on a best-effort basis.
type Notification struct {
	ID        string
	PlayerID  string
	ContestID string
	SkaterID  string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Sink delivers a notification to the player. Delivery is fire-and-forget
// from the caller's point of view.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}
