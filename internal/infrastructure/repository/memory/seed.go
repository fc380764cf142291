package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/pricing"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
)

const (
	ContestIDGrandPrixOpener = "gp-2026-skate-america"
	ContestIDGrandPrixFinal  = "gp-2026-final"
)

func rank(v int) *int { return &v }

func SeedSkaters() []skater.Skater {
	items := []skater.Skater{
		{ID: "sk-malinin", Name: "Ilia Malinin", Country: "USA", Ranking: rank(1)},
		{ID: "sk-kagiyama", Name: "Yuma Kagiyama", Country: "JPN", Ranking: rank(2)},
		{ID: "sk-sato", Name: "Shun Sato", Country: "JPN", Ranking: rank(4)},
		{ID: "sk-siao-him-fa", Name: "Adam Siao Him Fa", Country: "FRA", Ranking: rank(3)},
		{ID: "sk-grassl", Name: "Daniel Grassl", Country: "ITA", Ranking: rank(9)},
		{ID: "sk-shaidorov", Name: "Mikhail Shaidorov", Country: "KAZ", Ranking: rank(12)},
		{ID: "sk-aymoz", Name: "Kevin Aymoz", Country: "FRA", Ranking: rank(18)},
		{ID: "sk-cha", Name: "Junhwan Cha", Country: "KOR", Ranking: rank(24)},
		{ID: "sk-brezina", Name: "Michal Brezina", Country: "CZE", Ranking: rank(41)},
		{ID: "sk-newcomer", Name: "Lukas Britschgi", Country: "SUI"},
	}
	for i := range items {
		items[i].Price = pricing.ForRanking(items[i].Ranking)
	}
	return items
}

// SeedContests returns one open contest locking a week after now and one
// contest that is already completed.
func SeedContests(now time.Time) []contest.Contest {
	lockAt := now.Add(7 * 24 * time.Hour).Truncate(time.Hour)
	past := now.Add(-30 * 24 * time.Hour).Truncate(time.Hour)
	return []contest.Contest{
		{
			ID:            ContestIDGrandPrixOpener,
			Name:          "Grand Prix Opener",
			SlotCount:     3,
			BudgetCeiling: 40_000_000,
			Multiplier:    decimal.NewFromInt(1),
			LockAt:        &lockAt,
			Status:        contest.StatusOpen,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            ContestIDGrandPrixFinal,
			Name:          "Grand Prix Final",
			SlotCount:     4,
			BudgetCeiling: 45_000_000,
			Multiplier:    decimal.RequireFromString("1.5"),
			LockAt:        &past,
			Status:        contest.StatusCompleted,
			CreatedAt:     past,
			UpdatedAt:     past,
		},
	}
}

// SeedEntries enters every seed skater in every seed contest at the current price.
func SeedEntries(now time.Time) []contest.Entry {
	skaters := SeedSkaters()
	contests := SeedContests(now)
	out := make([]contest.Entry, 0, len(skaters)*len(contests))
	for _, c := range contests {
		for _, sk := range skaters {
			out = append(out, contest.Entry{
				ContestID: c.ID,
				SkaterID:  sk.ID,
				Price:     sk.Price,
				CreatedAt: c.CreatedAt,
			})
		}
	}
	return out
}

func DemoSeed(now time.Time) Seed {
	return Seed{
		Contests: SeedContests(now),
		Entries:  SeedEntries(now),
		Skaters:  SeedSkaters(),
	}
}
