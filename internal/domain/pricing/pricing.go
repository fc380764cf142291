// Package pricing derives a skater's opening price from their world ranking.
package pricing

// Prices are whole dollars.
const (
	BaselinePrice int64 = 5_000_000
	FloorPrice    int64 = 3_000_000
)

type tier struct {
	first, last int
	top         int64
	step        int64
}

var tiers = []tier{
	{first: 1, last: 5, top: 15_000_000, step: 500_000},
	{first: 6, last: 15, top: 12_500_000, step: 300_000},
	{first: 16, last: 30, top: 9_500_000, step: 200_000},
}

const (
	openTierFirst       = 31
	openTierTop   int64 = 6_500_000
	openTierStep  int64 = 100_000
)

// Price maps a ranking to a price. Rankings <= 0 are treated as unranked.
func Price(rank int) int64 {
	if rank <= 0 {
		return BaselinePrice
	}

	for _, t := range tiers {
		if rank >= t.first && rank <= t.last {
			return t.top - int64(rank-t.first)*t.step
		}
	}

	steps := rank - openTierFirst
	if int64(steps) >= (openTierTop-FloorPrice)/openTierStep {
		return FloorPrice
	}
	return openTierTop - int64(steps)*openTierStep
}

// ForRanking is Price for an optional ranking.
func ForRanking(rank *int) int64 {
	if rank == nil {
		return BaselinePrice
	}
	return Price(*rank)
}
