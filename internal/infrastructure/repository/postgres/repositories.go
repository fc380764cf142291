package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
	qb "github.com/riskibarqy/skate-fantasy/internal/platform/querybuilder"
)

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	return getContest(ctx, r.db, contestID)
}

func (r *ContestRepository) ListEntries(ctx context.Context, contestID string) ([]contest.Entry, error) {
	return listEntries(ctx, r.db, contestID)
}

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListPicks(ctx context.Context, playerID, contestID string) ([]roster.Pick, error) {
	return selectPicks(ctx, r.db, qb.Eq("player_id", playerID), qb.Eq("contest_id", contestID))
}

func (r *RosterRepository) ListEntitlements(ctx context.Context, playerID, contestID string) ([]roster.Entitlement, error) {
	conditions := []qb.Condition{qb.Eq("player_id", playerID)}
	if strings.TrimSpace(contestID) != "" {
		conditions = append(conditions, qb.Eq("contest_id", contestID))
	}
	return selectEntitlements(ctx, r.db, conditions...)
}

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) ListResults(ctx context.Context, contestID string) ([]scoring.Result, error) {
	return listResults(ctx, r.db, contestID)
}

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

// RecomputePlayerTotal upserts the sum of the player's pick points. The row
// is left untouched when the sum did not change.
func (r *StandingRepository) RecomputePlayerTotal(ctx context.Context, playerID string, at time.Time) (standing.SeasonTotal, error) {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO season_totals (player_id, points, updated_at)
SELECT $1::text, COALESCE(SUM(points_earned), 0), $2::timestamptz
FROM picks
WHERE player_id = $1::text
ON CONFLICT (player_id) DO UPDATE SET
    points = EXCLUDED.points,
    updated_at = EXCLUDED.updated_at
WHERE season_totals.points IS DISTINCT FROM EXCLUDED.points`, playerID, at.UTC()); err != nil {
		return standing.SeasonTotal{}, fmt.Errorf("recompute season total: %w", err)
	}

	query, args, err := qb.Select("player_id", "points", "0 AS rank", "updated_at").
		From("season_totals").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return standing.SeasonTotal{}, fmt.Errorf("build get season total query: %w", err)
	}
	var row seasonTotalTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return standing.SeasonTotal{}, fmt.Errorf("get season total: %w", err)
	}
	return row.toDomain(), nil
}

const rankedTotalsTable = `(
    SELECT player_id, points, updated_at,
           DENSE_RANK() OVER (ORDER BY points DESC) AS rank
    FROM season_totals
) AS ranked`

func (r *StandingRepository) GetByPlayer(ctx context.Context, playerID string) (standing.SeasonTotal, bool, error) {
	query, args, err := qb.Select("player_id", "points", "rank", "updated_at").
		From(rankedTotalsTable).
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return standing.SeasonTotal{}, false, fmt.Errorf("build get player standing query: %w", err)
	}

	var row seasonTotalTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standing.SeasonTotal{}, false, nil
		}
		return standing.SeasonTotal{}, false, fmt.Errorf("get player standing: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *StandingRepository) List(ctx context.Context, limit int) ([]standing.SeasonTotal, error) {
	query, args, err := qb.Select("player_id", "points", "rank", "updated_at").
		From(rankedTotalsTable).
		OrderBy("points DESC", "player_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []seasonTotalTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.SeasonTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type SkaterRepository struct {
	db *sqlx.DB
}

func NewSkaterRepository(db *sqlx.DB) *SkaterRepository {
	return &SkaterRepository{db: db}
}

func (r *SkaterRepository) GetByID(ctx context.Context, skaterID string) (skater.Skater, bool, error) {
	query, args, err := qb.Select(skaterColumns...).
		From("skaters").
		Where(qb.Eq("id", skaterID)).
		ToSQL()
	if err != nil {
		return skater.Skater{}, false, fmt.Errorf("build get skater query: %w", err)
	}

	var row skaterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return skater.Skater{}, false, nil
		}
		return skater.Skater{}, false, fmt.Errorf("get skater: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SkaterRepository) List(ctx context.Context) ([]skater.Skater, error) {
	query, args, err := qb.Select(skaterColumns...).
		From("skaters").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list skaters query: %w", err)
	}

	var rows []skaterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list skaters: %w", err)
	}

	out := make([]skater.Skater, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SkaterRepository) UpdatePrices(ctx context.Context, prices map[string]int64, updatedAt time.Time) error {
	if len(prices) == 0 {
		return nil
	}

	ids := make([]string, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	values := make([]int64, 0, len(ids))
	for _, id := range ids {
		values = append(values, prices[id])
	}

	if _, err := r.db.ExecContext(ctx, `
UPDATE skaters AS s
SET price = v.price, updated_at = $3
FROM unnest($1::text[], $2::bigint[]) AS v(id, price)
WHERE s.id = v.id`, pq.Array(ids), pq.Array(values), updatedAt.UTC()); err != nil {
		return fmt.Errorf("update skater prices: %w", err)
	}
	return nil
}
