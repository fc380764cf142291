package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
)

type ContestRepository struct {
	store *Store
}

func NewContestRepository(store *Store) *ContestRepository {
	return &ContestRepository{store: store}
}

func (r *ContestRepository) GetByID(_ context.Context, contestID string) (contest.Contest, bool, error) {
	var (
		c  contest.Contest
		ok bool
	)
	r.store.withState(func(st *state) {
		c, ok = st.contests[contestID]
	})
	return c, ok, nil
}

func (r *ContestRepository) ListEntries(_ context.Context, contestID string) ([]contest.Entry, error) {
	var out []contest.Entry
	r.store.withState(func(st *state) {
		out = contestEntries(st, contestID)
	})
	return out, nil
}

type RosterRepository struct {
	store *Store
}

func NewRosterRepository(store *Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) ListPicks(_ context.Context, playerID, contestID string) ([]roster.Pick, error) {
	var out []roster.Pick
	r.store.withState(func(st *state) {
		out = playerPicks(st, playerID, contestID)
	})
	return out, nil
}

func (r *RosterRepository) ListEntitlements(_ context.Context, playerID, contestID string) ([]roster.Entitlement, error) {
	out := make([]roster.Entitlement, 0)
	r.store.withState(func(st *state) {
		for k, e := range st.entitlements {
			if k.playerID != playerID {
				continue
			}
			if contestID != "" && k.contestID != contestID {
				continue
			}
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContestID != out[j].ContestID {
			return out[i].ContestID < out[j].ContestID
		}
		return out[i].WithdrawnSkaterID < out[j].WithdrawnSkaterID
	})
	return out, nil
}

type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

func (r *ScoringRepository) ListResults(_ context.Context, contestID string) ([]scoring.Result, error) {
	var out []scoring.Result
	r.store.withState(func(st *state) {
		out = contestResults(st, contestID)
	})
	return out, nil
}

type StandingRepository struct {
	store *Store
}

func NewStandingRepository(store *Store) *StandingRepository {
	return &StandingRepository{store: store}
}

// RecomputePlayerTotal leaves UpdatedAt alone when the sum did not change.
func (r *StandingRepository) RecomputePlayerTotal(_ context.Context, playerID string, at time.Time) (standing.SeasonTotal, error) {
	var total standing.SeasonTotal
	r.store.withState(func(st *state) {
		var points int64
		for k, p := range st.picks {
			if k.playerID == playerID && p.PointsEarned != nil {
				points += *p.PointsEarned
			}
		}

		prev, exists := st.totals[playerID]
		if exists && prev.Points == points {
			total = prev
			return
		}
		total = standing.SeasonTotal{PlayerID: playerID, Points: points, UpdatedAt: at}
		st.totals[playerID] = total
	})
	return total, nil
}

func (r *StandingRepository) GetByPlayer(_ context.Context, playerID string) (standing.SeasonTotal, bool, error) {
	var ranked []standing.SeasonTotal
	r.store.withState(func(st *state) {
		ranked = rankedTotals(st)
	})
	for _, t := range ranked {
		if t.PlayerID == playerID {
			return t, true, nil
		}
	}
	return standing.SeasonTotal{}, false, nil
}

func (r *StandingRepository) List(_ context.Context, limit int) ([]standing.SeasonTotal, error) {
	var ranked []standing.SeasonTotal
	r.store.withState(func(st *state) {
		ranked = rankedTotals(st)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func rankedTotals(st *state) []standing.SeasonTotal {
	items := make([]standing.SeasonTotal, 0, len(st.totals))
	for _, t := range st.totals {
		items = append(items, t)
	}
	return standing.Rank(items)
}

type SkaterRepository struct {
	store *Store
}

func NewSkaterRepository(store *Store) *SkaterRepository {
	return &SkaterRepository{store: store}
}

func (r *SkaterRepository) GetByID(_ context.Context, skaterID string) (skater.Skater, bool, error) {
	var (
		sk skater.Skater
		ok bool
	)
	r.store.withState(func(st *state) {
		sk, ok = st.skaters[skaterID]
	})
	return sk, ok, nil
}

func (r *SkaterRepository) List(_ context.Context) ([]skater.Skater, error) {
	out := make([]skater.Skater, 0)
	r.store.withState(func(st *state) {
		for _, sk := range st.skaters {
			out = append(out, sk)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SkaterRepository) UpdatePrices(_ context.Context, prices map[string]int64, updatedAt time.Time) error {
	r.store.withState(func(st *state) {
		for id, price := range prices {
			sk, ok := st.skaters[id]
			if !ok {
				continue
			}
			sk.Price = price
			sk.UpdatedAt = updatedAt
			st.skaters[id] = sk
		}
	})
	return nil
}
