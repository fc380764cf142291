package contest

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateLock(t *testing.T) {
	now := time.Date(2026, 10, 24, 18, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	cases := []struct {
		name    string
		contest Contest
		want    LockState
	}{
		{name: "open without deadline", contest: Contest{Status: StatusOpen}, want: LockState{}},
		{name: "open with future deadline", contest: Contest{Status: StatusOpen, LockAt: &future}, want: LockState{}},
		{name: "open with passed deadline", contest: Contest{Status: StatusOpen, LockAt: &past}, want: LockState{Locked: true, Reason: LockReasonDeadline}},
		{name: "deadline exactly now", contest: Contest{Status: StatusOpen, LockAt: &now}, want: LockState{Locked: true, Reason: LockReasonDeadline}},
		{name: "locked status", contest: Contest{Status: StatusLocked, LockAt: &future}, want: LockState{Locked: true, Reason: LockReasonStatus}},
		{name: "completed status and passed deadline", contest: Contest{Status: StatusCompleted, LockAt: &past}, want: LockState{Locked: true, Reason: LockReasonStatus}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateLock(tc.contest, now); got != tc.want {
				t.Fatalf("EvaluateLock() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestEnsureOpen_DistinguishesReasons(t *testing.T) {
	now := time.Date(2026, 10, 24, 18, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	err := EnsureOpen(Contest{ID: "c-1", Status: StatusInProgress}, now)
	if !errors.Is(err, ErrContestNotOpen) || errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected ErrContestNotOpen, got %v", err)
	}
	if !strings.Contains(err.Error(), "status=in_progress") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}

	err = EnsureOpen(Contest{ID: "c-1", Status: StatusOpen, LockAt: &past}, now)
	if !errors.Is(err, ErrDeadlinePassed) || errors.Is(err, ErrContestNotOpen) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
	if !strings.Contains(err.Error(), "lock_at=2026-10-24T17:59:00Z") {
		t.Fatalf("expected deadline in message, got %q", err.Error())
	}

	if err := EnsureOpen(Contest{ID: "c-1", Status: StatusOpen}, now); err != nil {
		t.Fatalf("expected open contest, got %v", err)
	}
}

func TestEnsureReplacementWindow(t *testing.T) {
	now := time.Date(2026, 10, 24, 18, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	if err := EnsureReplacementWindow(Contest{Status: StatusLocked}, now); err != nil {
		t.Fatalf("expected no deadline to allow replacement, got %v", err)
	}
	if err := EnsureReplacementWindow(Contest{Status: StatusInProgress, ReplacementDeadline: &future}, now); err != nil {
		t.Fatalf("expected future deadline to allow replacement, got %v", err)
	}
	if err := EnsureReplacementWindow(Contest{ReplacementDeadline: &past}, now); !errors.Is(err, ErrReplacementWindowClosed) {
		t.Fatalf("expected ErrReplacementWindowClosed, got %v", err)
	}
}

func TestValidateTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusOpen, StatusLocked},
		{StatusOpen, StatusCompleted},
		{StatusLocked, StatusInProgress},
		{StatusInProgress, StatusCompleted},
	}
	for _, tr := range allowed {
		if err := ValidateTransition(tr[0], tr[1]); err != nil {
			t.Fatalf("expected %s -> %s to be allowed, got %v", tr[0], tr[1], err)
		}
	}

	rejected := [][2]Status{
		{StatusLocked, StatusOpen},
		{StatusCompleted, StatusInProgress},
		{StatusOpen, StatusOpen},
		{StatusOpen, Status("archived")},
	}
	for _, tr := range rejected {
		if err := ValidateTransition(tr[0], tr[1]); !errors.Is(err, ErrInvalidStatusTransition) {
			t.Fatalf("expected %s -> %s to be rejected, got %v", tr[0], tr[1], err)
		}
	}
}
