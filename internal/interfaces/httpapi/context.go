package httpapi

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/skate-fantasy/internal/domain/user"
	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

type principalKey struct{}

// withPrincipal stores the verified caller and tags the active span with
// the player id so traces can be filtered per player.
func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("skate.player_id", p.UserID),
		attribute.Bool("skate.operator", p.IsOperator),
	)
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok && p.UserID != ""
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}
