package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/skate-fantasy/internal/config"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "skate-fantasy-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected no server when pprof is disabled")
	}
	if err := StopPprofServer(srv, logging.NewNop(), 0); err != nil {
		t.Fatalf("stop nil pprof server: %v", err)
	}
}

func TestUptraceDisabledReason(t *testing.T) {
	if got := uptraceDisabledReason(config.Config{}); got != "UPTRACE_ENABLED=false" {
		t.Fatalf("unexpected reason: %q", got)
	}
	if got := uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: " "}); got != "UPTRACE_DSN empty" {
		t.Fatalf("unexpected reason: %q", got)
	}
	if got := uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev?grpc=4317"}); got != "" {
		t.Fatalf("expected enabled, got %q", got)
	}
}

func TestStartPprofServer_RejectsSharedAddr(t *testing.T) {
	cfg := config.Config{PprofEnabled: true, PprofAddr: ":8080", HTTPAddr: ":8080"}
	if _, err := StartPprofServer(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error when pprof shares the API address")
	}
}
