package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/trace"
)

func TestLoggerWritesKeyValuesAndTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "pick added", "player_id", "p-1", "error", errors.New("boom"))

	var line map[string]any
	if err := jsoniter.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["msg"] != "pick added" {
		t.Fatalf("unexpected msg: %v", line["msg"])
	}
	if line["player_id"] != "p-1" {
		t.Fatalf("unexpected player_id: %v", line["player_id"])
	}
	if line["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", line["error"])
	}
	if line["trace_id"] != traceID.String() || line["span_id"] != spanID.String() {
		t.Fatalf("missing trace correlation: %v", line)
	}
	if caller, _ := line["caller"].(string); !strings.Contains(caller, "logger_test.go") {
		t.Fatalf("expected caller to point at the call site, got %q", caller)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	logger.With("component", "cascade").Warn("kept")
	if !strings.Contains(buf.String(), `"component":"cascade"`) {
		t.Fatalf("expected bound field in output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARNING": LevelWarn,
		" error ": LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerMirrorsWrittenEntries(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger := NewJSONWriter(&bytes.Buffer{}, LevelWarn)
	logger.Info("filtered")
	logger.Warn("skater withdrawn", "skater_id", "s1")

	if len(got) != 1 || got[0] != "warn:skater withdrawn" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}
}
