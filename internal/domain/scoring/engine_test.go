package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestScore(t *testing.T) {
	rules := DefaultRules()
	one := decimal.NewFromInt(1)

	cases := []struct {
		name       string
		in         Input
		multiplier decimal.Decimal
		want       Points
	}{
		{
			name:       "winner clean personal best",
			in:         Input{Placement: 1, Faults: 0, PersonalBest: true},
			multiplier: one,
			want:       Points{Raw: 33, Final: 33},
		},
		{
			name:       "winner clean personal best at 1.5",
			in:         Input{Placement: 1, Faults: 0, PersonalBest: true},
			multiplier: decimal.RequireFromString("1.5"),
			want:       Points{Raw: 33, Final: 50},
		},
		{
			name:       "withdrawn winner keeps partial data",
			in:         Input{Placement: 1, Faults: 0, Withdrawn: true},
			multiplier: one,
			want:       Points{Raw: 18, Final: 18},
		},
		{
			name:       "short segment bonus and faults",
			in:         Input{Placement: 3, ShortPlacement: 2, Faults: 2},
			multiplier: one,
			want:       Points{Raw: 15 + 2 - 4, Final: 13},
		},
		{
			name:       "placement outside table",
			in:         Input{Placement: 11, ShortPlacement: 4, Faults: 1},
			multiplier: one,
			want:       Points{Raw: -2, Final: -2},
		},
		{
			name:       "no placement withdrawn",
			in:         Input{Placement: 0, Faults: 3, Withdrawn: true},
			multiplier: decimal.RequireFromString("1.5"),
			want:       Points{Raw: -16, Final: -24},
		},
		{
			name:       "negative half rounds away from zero",
			in:         Input{Placement: 0, Faults: 1, Withdrawn: true},
			multiplier: decimal.RequireFromString("1.125"),
			want:       Points{Raw: -12, Final: -14},
		},
		{
			name:       "tenth place at 2x",
			in:         Input{Placement: 10, Faults: 0},
			multiplier: decimal.NewFromInt(2),
			want:       Points{Raw: 4, Final: 8},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.in, tc.multiplier, rules)
			if got != tc.want {
				t.Fatalf("Score(%+v, %s) = %+v, want %+v", tc.in, tc.multiplier, got, tc.want)
			}
		})
	}
}

func TestScore_FinalIsRoundedRawTimesMultiplier(t *testing.T) {
	rules := DefaultRules()
	multipliers := []string{"0", "0.5", "1", "1.25", "1.5", "1.75", "2", "3.333"}

	for placement := 0; placement <= 12; placement++ {
		for short := 0; short <= 4; short++ {
			for faults := 0; faults <= 3; faults++ {
				for _, flags := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
					in := Input{
						Placement:      placement,
						ShortPlacement: short,
						Faults:         faults,
						PersonalBest:   flags[0],
						Withdrawn:      flags[1],
					}
					base := Score(in, decimal.NewFromInt(1), rules)
					for _, raw := range multipliers {
						m := decimal.RequireFromString(raw)
						got := Score(in, m, rules)
						want := decimal.NewFromInt(base.Raw).Mul(m).Round(0).IntPart()
						if got.Raw != base.Raw || got.Final != want {
							t.Fatalf("input %+v multiplier %s: got %+v, want raw=%d final=%d", in, raw, got, base.Raw, want)
						}
					}
				}
			}
		}
	}
}

func TestScore_CleanBonusOnlyWithoutFaults(t *testing.T) {
	rules := DefaultRules()
	one := decimal.NewFromInt(1)

	clean := Score(Input{Placement: 4}, one, rules)
	if clean.Raw != 12+rules.CleanBonus {
		t.Fatalf("expected clean bonus to apply, got raw=%d", clean.Raw)
	}

	for faults := 1; faults <= 5; faults++ {
		got := Score(Input{Placement: 4, Faults: faults}, one, rules)
		want := 12 - int64(faults)*rules.FaultPenalty
		if got.Raw != want {
			t.Fatalf("faults=%d: raw=%d want %d", faults, got.Raw, want)
		}
	}
}

func TestValidateInput(t *testing.T) {
	if err := ValidateInput(Input{Placement: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateInput(Input{Placement: 10, Faults: MaxFaults}); err != nil {
		t.Fatalf("unexpected error at fault bound: %v", err)
	}
	for _, in := range []Input{
		{Placement: -1},
		{ShortPlacement: -2},
		{Faults: -1},
		{Faults: MaxFaults + 1},
		{Placement: 10, Faults: math.MaxInt},
		{Placement: math.MaxInt32 + 1},
		{ShortPlacement: math.MaxInt32 + 1},
	} {
		if err := ValidateInput(in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestScore_HugeFaultCountNeverBeatsOneFault(t *testing.T) {
	rules := DefaultRules()
	one := Score(Input{Placement: 10, Faults: 1}, decimal.NewFromInt(1), rules)
	huge := Score(Input{Placement: 10, Faults: math.MaxInt}, decimal.NewFromInt(1), rules)
	if huge.Raw >= one.Raw {
		t.Fatalf("huge fault count scored %d, one fault scored %d", huge.Raw, one.Raw)
	}
}
