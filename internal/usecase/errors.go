package usecase

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrConflict              = crerr.New("state conflict")
	ErrLimitExceeded         = crerr.New("limit exceeded")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrForbidden             = crerr.New("forbidden")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)

var errorKinds = []struct {
	kind   error
	causes []error
}{
	{
		kind: ErrNotFound,
		causes: []error{
			roster.ErrSkaterNotEntered,
			roster.ErrPickNotFound,
			roster.ErrEntitlementNotFound,
		},
	},
	{
		kind: ErrConflict,
		causes: []error{
			contest.ErrContestNotOpen,
			contest.ErrDeadlinePassed,
			contest.ErrReplacementWindowClosed,
			contest.ErrInvalidStatusTransition,
			contest.ErrEntryExists,
			roster.ErrSkaterWithdrawn,
			roster.ErrDuplicatePick,
			roster.ErrEntitlementConsumed,
		},
	},
	{
		kind: ErrLimitExceeded,
		causes: []error{
			roster.ErrSlotLimitExceeded,
			roster.ErrBudgetExceeded,
		},
	},
	{
		kind: ErrInvalidInput,
		causes: []error{
			roster.ErrRosterSizeMismatch,
			scoring.ErrInvalidInput,
		},
	},
}

// markKind tags a domain rule violation with its error kind so callers can
// match either the precise reason or the kind. Other errors pass through.
func markKind(err error) error {
	if err == nil {
		return nil
	}
	for _, group := range errorKinds {
		for _, cause := range group.causes {
			if crerr.Is(err, cause) {
				return crerr.Mark(err, group.kind)
			}
		}
	}
	return err
}

// outcomeLabel classifies err for metrics: ok, rejected by a rule, or failed.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case crerr.IsAny(err, ErrInvalidInput, ErrNotFound, ErrConflict, ErrLimitExceeded, ErrForbidden):
		return "rejected"
	default:
		return "error"
	}
}
