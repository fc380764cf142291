package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid result input")

// MaxFaults bounds the fault count so the penalty product cannot overflow.
const MaxFaults = 1000

// MaxPlacement matches the INTEGER result columns.
const MaxPlacement = math.MaxInt32

// Score converts a result into points. It never touches persisted state.
func Score(in Input, multiplier decimal.Decimal, rules Rules) Points {
	raw := rules.placementPoints(in.Placement) + rules.shortSegmentPoints(in.ShortPlacement)

	if in.Faults == 0 {
		raw += rules.CleanBonus
	} else if in.Faults > 0 {
		raw -= int64(min(in.Faults, MaxFaults)) * rules.FaultPenalty
	}
	if in.PersonalBest {
		raw += rules.PersonalBestBonus
	}
	if in.Withdrawn {
		raw -= rules.WithdrawalPenalty
	}

	return Points{
		Raw:   raw,
		Final: ApplyMultiplier(raw, multiplier),
	}
}

// ApplyMultiplier rounds half away from zero.
func ApplyMultiplier(raw int64, multiplier decimal.Decimal) int64 {
	return decimal.NewFromInt(raw).Mul(multiplier).Round(0).IntPart()
}

// ValidateInput rejects values no official result sheet can contain.
// Placement 0 means the skater has no final placement.
func ValidateInput(in Input) error {
	if in.Placement < 0 || in.Placement > MaxPlacement {
		return fmt.Errorf("%w: placement=%d", ErrInvalidInput, in.Placement)
	}
	if in.ShortPlacement < 0 || in.ShortPlacement > MaxPlacement {
		return fmt.Errorf("%w: short_placement=%d", ErrInvalidInput, in.ShortPlacement)
	}
	if in.Faults < 0 || in.Faults > MaxFaults {
		return fmt.Errorf("%w: faults=%d", ErrInvalidInput, in.Faults)
	}
	return nil
}
