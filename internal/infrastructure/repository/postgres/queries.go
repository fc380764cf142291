package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	qb "github.com/riskibarqy/skate-fantasy/internal/platform/querybuilder"
)

// The read queries below run either on the pool or inside a unit of work.

func getContest(ctx context.Context, q sqlx.QueryerContext, contestID string) (contest.Contest, bool, error) {
	query, args, err := qb.Select(contestColumns...).
		From("contests").
		Where(qb.Eq("id", contestID)).
		ToSQL()
	if err != nil {
		return contest.Contest{}, false, fmt.Errorf("build get contest query: %w", err)
	}

	var row contestTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("get contest: %w", err)
	}
	return row.toDomain(), true, nil
}

func listEntries(ctx context.Context, q sqlx.QueryerContext, contestID string) ([]contest.Entry, error) {
	query, args, err := qb.Select(entryColumns...).
		From("contest_entries").
		Where(qb.Eq("contest_id", contestID)).
		OrderBy("skater_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []entryTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	out := make([]contest.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func selectPicks(ctx context.Context, q sqlx.QueryerContext, conditions ...qb.Condition) ([]roster.Pick, error) {
	query, args, err := qb.Select(pickColumns...).
		From("picks").
		Where(conditions...).
		OrderBy("player_id", "contest_id", "skater_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]roster.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func selectEntitlements(ctx context.Context, q sqlx.QueryerContext, conditions ...qb.Condition) ([]roster.Entitlement, error) {
	query, args, err := qb.Select(entitlementColumns...).
		From("replacement_entitlements").
		Where(conditions...).
		OrderBy("contest_id", "withdrawn_skater_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entitlements query: %w", err)
	}

	var rows []entitlementTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}

	out := make([]roster.Entitlement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func listResults(ctx context.Context, q sqlx.QueryerContext, contestID string) ([]scoring.Result, error) {
	query, args, err := qb.Select(resultColumns...).
		From("contest_results").
		Where(qb.Eq("contest_id", contestID)).
		OrderBy("skater_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list results query: %w", err)
	}

	var rows []resultTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	out := make([]scoring.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
