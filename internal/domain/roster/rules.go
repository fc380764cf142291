package roster

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
)

var (
	ErrSkaterNotEntered    = errors.New("skater is not entered in contest")
	ErrSkaterWithdrawn     = errors.New("skater has withdrawn from contest")
	ErrDuplicatePick       = errors.New("skater already on roster")
	ErrSlotLimitExceeded   = errors.New("roster slot limit exceeded")
	ErrBudgetExceeded      = errors.New("budget ceiling exceeded")
	ErrRosterSizeMismatch  = errors.New("roster size does not match slot count")
	ErrPickNotFound        = errors.New("pick not found")
	ErrEntitlementNotFound = errors.New("replacement entitlement not found")
	ErrEntitlementConsumed = errors.New("replacement entitlement already consumed")
)

// Spend sums the entry prices of the given picks.
func Spend(entries []contest.Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Price
	}
	return total
}

// ValidateAdd checks a single addition against the roster currently held.
// held must carry the authoritative entry prices read in the same transaction.
func ValidateAdd(c contest.Contest, held []contest.Entry, candidate contest.Entry) error {
	if candidate.Withdrawn {
		return fmt.Errorf("%w: skater=%s", ErrSkaterWithdrawn, candidate.SkaterID)
	}
	for _, e := range held {
		if e.SkaterID == candidate.SkaterID {
			return fmt.Errorf("%w: skater=%s", ErrDuplicatePick, candidate.SkaterID)
		}
	}
	if len(held) >= c.SlotCount {
		return fmt.Errorf("%w: slots=%d used=%d", ErrSlotLimitExceeded, c.SlotCount, len(held))
	}

	spent := Spend(held)
	if spent+candidate.Price > c.BudgetCeiling {
		return fmt.Errorf("%w: spent=%d price=%d total=%d ceiling=%d",
			ErrBudgetExceeded, spent, candidate.Price, spent+candidate.Price, c.BudgetCeiling)
	}
	return nil
}

// ValidateRoster checks a complete replacement roster.
func ValidateRoster(c contest.Contest, set []contest.Entry) error {
	if len(set) != c.SlotCount {
		return fmt.Errorf("%w: slots=%d submitted=%d", ErrRosterSizeMismatch, c.SlotCount, len(set))
	}

	seen := make(map[string]struct{}, len(set))
	for _, e := range set {
		if _, ok := seen[e.SkaterID]; ok {
			return fmt.Errorf("%w: skater=%s", ErrDuplicatePick, e.SkaterID)
		}
		seen[e.SkaterID] = struct{}{}
		if e.Withdrawn {
			return fmt.Errorf("%w: skater=%s", ErrSkaterWithdrawn, e.SkaterID)
		}
	}

	if total := Spend(set); total > c.BudgetCeiling {
		return fmt.Errorf("%w: total=%d ceiling=%d", ErrBudgetExceeded, total, c.BudgetCeiling)
	}
	return nil
}

// ValidateSwap checks a replacement for a withdrawn skater. remaining is the
// player's roster without the withdrawn skater.
func ValidateSwap(c contest.Contest, remaining []contest.Entry, withdrawnSkaterID string, replacement contest.Entry) error {
	if replacement.Withdrawn {
		return fmt.Errorf("%w: skater=%s", ErrSkaterWithdrawn, replacement.SkaterID)
	}

	kept := make([]contest.Entry, 0, len(remaining))
	for _, e := range remaining {
		if e.SkaterID == withdrawnSkaterID {
			continue
		}
		if e.SkaterID == replacement.SkaterID {
			return fmt.Errorf("%w: skater=%s", ErrDuplicatePick, replacement.SkaterID)
		}
		kept = append(kept, e)
	}
	if len(kept) >= c.SlotCount {
		return fmt.Errorf("%w: slots=%d used=%d", ErrSlotLimitExceeded, c.SlotCount, len(kept))
	}

	spent := Spend(kept)
	if spent+replacement.Price > c.BudgetCeiling {
		return fmt.Errorf("%w: spent=%d price=%d total=%d ceiling=%d",
			ErrBudgetExceeded, spent, replacement.Price, spent+replacement.Price, c.BudgetCeiling)
	}
	return nil
}
