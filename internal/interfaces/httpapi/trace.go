package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("skate-fantasy/internal/interfaces/httpapi")

// startSpan opens a child span for handlers and the auth middlewares.
// Requests without a parent span (filtered routes) get a no-op span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !tracedSpanName(name) {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func tracedSpanName(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.") || strings.HasPrefix(name, "httpapi.Require")
}
