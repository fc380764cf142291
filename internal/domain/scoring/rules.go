package scoring

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Rules holds the point tables. Placement[i] is awarded for placement i+1.
type Rules struct {
	Placement         []int64 `toml:"placement"`
	ShortSegment      []int64 `toml:"short_segment"`
	CleanBonus        int64   `toml:"clean_bonus"`
	FaultPenalty      int64   `toml:"fault_penalty"`
	PersonalBestBonus int64   `toml:"personal_best_bonus"`
	WithdrawalPenalty int64   `toml:"withdrawal_penalty"`
}

func DefaultRules() Rules {
	return Rules{
		Placement:         []int64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
		ShortSegment:      []int64{3, 2, 1},
		CleanBonus:        3,
		FaultPenalty:      2,
		PersonalBestBonus: 5,
		WithdrawalPenalty: 10,
	}
}

// LoadRules reads a TOML rules file. Keys missing from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read scoring rules %s: %w", path, err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	if err := toml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("decode scoring rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r Rules) Validate() error {
	if len(r.Placement) == 0 {
		return fmt.Errorf("scoring rules: placement table is empty")
	}
	if len(r.ShortSegment) > 3 {
		return fmt.Errorf("scoring rules: short_segment table has %d entries, max 3", len(r.ShortSegment))
	}
	if !nonIncreasing(r.Placement) {
		return fmt.Errorf("scoring rules: placement table must not increase")
	}
	if !nonIncreasing(r.ShortSegment) {
		return fmt.Errorf("scoring rules: short_segment table must not increase")
	}
	if r.CleanBonus < 0 || r.FaultPenalty < 0 || r.PersonalBestBonus < 0 || r.WithdrawalPenalty < 0 {
		return fmt.Errorf("scoring rules: bonuses and penalties must be >= 0")
	}
	return nil
}

func (r Rules) placementPoints(placement int) int64 {
	return tableValue(r.Placement, placement)
}

func (r Rules) shortSegmentPoints(placement int) int64 {
	return tableValue(r.ShortSegment, placement)
}

func tableValue(table []int64, placement int) int64 {
	if placement < 1 || placement > len(table) {
		return 0
	}
	return table[placement-1]
}

func nonIncreasing(values []int64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			return false
		}
	}
	return true
}
