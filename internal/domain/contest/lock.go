package contest

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrContestNotOpen          = errors.New("contest is not open for roster changes")
	ErrDeadlinePassed          = errors.New("contest lock deadline has passed")
	ErrReplacementWindowClosed = errors.New("replacement deadline has passed")
	ErrInvalidStatusTransition = errors.New("invalid contest status transition")
	ErrEntryExists             = errors.New("skater already entered in contest")
)

type LockReason string

const (
	LockReasonNone     LockReason = ""
	LockReasonStatus   LockReason = "status"
	LockReasonDeadline LockReason = "deadline"
)

// LockState is derived from the contest and the clock on every call.
type LockState struct {
	Locked bool
	Reason LockReason
}

func EvaluateLock(c Contest, now time.Time) LockState {
	if c.Status != StatusOpen {
		return LockState{Locked: true, Reason: LockReasonStatus}
	}
	if c.LockAt != nil && !now.Before(*c.LockAt) {
		return LockState{Locked: true, Reason: LockReasonDeadline}
	}
	return LockState{}
}

func IsLocked(c Contest, now time.Time) bool {
	return EvaluateLock(c, now).Locked
}

// EnsureOpen returns nil while the roster may still change.
func EnsureOpen(c Contest, now time.Time) error {
	switch EvaluateLock(c, now).Reason {
	case LockReasonStatus:
		return fmt.Errorf("%w: contest=%s status=%s", ErrContestNotOpen, c.ID, c.Status)
	case LockReasonDeadline:
		return fmt.Errorf("%w: contest=%s lock_at=%s now=%s",
			ErrDeadlinePassed, c.ID, c.LockAt.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	default:
		return nil
	}
}

// EnsureReplacementWindow checks the optional replacement deadline. Contest
// status is irrelevant here since replacements happen after lock.
func EnsureReplacementWindow(c Contest, now time.Time) error {
	if c.ReplacementDeadline == nil || now.Before(*c.ReplacementDeadline) {
		return nil
	}
	return fmt.Errorf("%w: contest=%s deadline=%s now=%s",
		ErrReplacementWindowClosed, c.ID, c.ReplacementDeadline.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
}

// ValidateTransition allows forward moves only. Skipping states is fine.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, to)
	}
	if statusOrder[to] <= statusOrder[from] {
		return fmt.Errorf("%w: from=%s to=%s", ErrInvalidStatusTransition, from, to)
	}
	return nil
}
