package resilience

import (
	"errors"
	"testing"
	"time"
)

type transition struct {
	from, to CircuitState
}

func newTestBreaker(threshold, probes int, now *time.Time) (*CircuitBreaker, *[]transition) {
	var seen []transition
	b := NewCircuitBreaker("anubis", CircuitBreakerConfig{
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   probes,
	}, func(name string, from, to CircuitState) {
		if name != "anubis" {
			panic("unexpected breaker name " + name)
		}
		seen = append(seen, transition{from: from, to: to})
	})
	b.now = func() time.Time { return *now }
	return b, &seen
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	now := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	b, seen := newTestBreaker(2, 1, &now)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []transition{
		{CircuitStateClosed, CircuitStateOpen},
		{CircuitStateOpen, CircuitStateHalfOpen},
		{CircuitStateHalfOpen, CircuitStateClosed},
	}
	if len(*seen) != len(want) {
		t.Fatalf("expected %d transitions, got %+v", len(want), *seen)
	}
	for i := range want {
		if (*seen)[i] != want[i] {
			t.Fatalf("transition %d: got %+v want %+v", i, (*seen)[i], want[i])
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	b, _ := newTestBreaker(1, 2, &now)

	b.RecordFailure()
	now = now.Add(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after cool-down, got %s", state)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected reopen after failed probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	b := NewCircuitBreaker("webhook", CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}, nil)
	rejected := errors.New("rejected by webhook")

	err := b.Execute(func() error { return rejected }, func(error) bool { return false })
	if !errors.Is(err, rejected) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after non-failure error, got %s", state)
	}

	_ = b.Execute(func() error { return rejected }, nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after counted failure, got %s", state)
	}
	if err := b.Execute(func() error { return nil }, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_DisabledConfigAllowsEverything(t *testing.T) {
	b := NewCircuitBreakerFromConfig("webhook", CircuitBreakerConfig{Enabled: false}, nil)
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	for i := 0; i < 5; i++ {
		_ = b.Execute(func() error { return errors.New("down") }, nil)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("nil breaker must allow calls, got %v", err)
	}
}

func TestCircuitBreakerConfig_WithDefaults(t *testing.T) {
	got := CircuitBreakerConfig{Enabled: true, FailureThreshold: 0, OpenTimeout: -1, HalfOpenMaxReq: 3}.withDefaults()
	if got.FailureThreshold != 5 || got.OpenTimeout != 15*time.Second || got.HalfOpenMaxReq != 3 || !got.Enabled {
		t.Fatalf("unexpected config: %+v", got)
	}
}
