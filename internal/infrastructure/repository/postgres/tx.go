package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	qb "github.com/riskibarqy/skate-fantasy/internal/platform/querybuilder"
)

type tx struct {
	tx *sqlx.Tx
}

func (t *tx) GetContest(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	return getContest(ctx, t.tx, contestID)
}

func (t *tx) UpdateContestStatus(ctx context.Context, contestID string, status contest.Status, at time.Time) error {
	query, args, err := qb.Update("contests").
		Set("status", string(status)).
		Set("updated_at", at.UTC()).
		Where(qb.Eq("id", contestID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update contest status query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update contest status: %w", err)
	}
	return nil
}

func (t *tx) SetReplacementDeadline(ctx context.Context, contestID string, deadline time.Time) error {
	query, args, err := qb.Update("contests").
		Set("replacement_deadline", deadline.UTC()).
		Where(qb.Eq("id", contestID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set replacement deadline query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set replacement deadline: %w", err)
	}
	return nil
}

func (t *tx) GetEntry(ctx context.Context, contestID, skaterID string) (contest.Entry, bool, error) {
	query, args, err := qb.Select(entryColumns...).
		From("contest_entries").
		Where(qb.Eq("contest_id", contestID), qb.Eq("skater_id", skaterID)).
		ToSQL()
	if err != nil {
		return contest.Entry{}, false, fmt.Errorf("build get entry query: %w", err)
	}

	var row entryTableModel
	if err := t.tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Entry{}, false, nil
		}
		return contest.Entry{}, false, fmt.Errorf("get entry: %w", err)
	}
	return row.toDomain(), true, nil
}

func (t *tx) ListEntries(ctx context.Context, contestID string) ([]contest.Entry, error) {
	return listEntries(ctx, t.tx, contestID)
}

func (t *tx) InsertEntry(ctx context.Context, entry contest.Entry) error {
	query, args, err := qb.InsertModel("contest_entries", entryInsertModel{
		ContestID: entry.ContestID,
		SkaterID:  entry.SkaterID,
		Price:     entry.Price,
		CreatedAt: entry.CreatedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert entry query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contest=%s skater=%s", contest.ErrEntryExists, entry.ContestID, entry.SkaterID)
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (t *tx) UpdateEntryPrice(ctx context.Context, contestID, skaterID string, price int64) error {
	query, args, err := qb.Update("contest_entries").
		Set("price", price).
		Where(qb.Eq("contest_id", contestID), qb.Eq("skater_id", skaterID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update entry price query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update entry price: %w", err)
	}
	return nil
}

func (t *tx) MarkEntryWithdrawn(ctx context.Context, contestID, skaterID string, at time.Time) error {
	query, args, err := qb.Update("contest_entries").
		Set("withdrawn", true).
		Set("withdrawn_at", at.UTC()).
		Where(qb.Eq("contest_id", contestID), qb.Eq("skater_id", skaterID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark entry withdrawn query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark entry withdrawn: %w", err)
	}
	return nil
}

func (t *tx) ListPicks(ctx context.Context, playerID, contestID string) ([]roster.Pick, error) {
	return selectPicks(ctx, t.tx, qb.Eq("player_id", playerID), qb.Eq("contest_id", contestID))
}

func (t *tx) ListContestPicks(ctx context.Context, contestID string) ([]roster.Pick, error) {
	return selectPicks(ctx, t.tx, qb.Eq("contest_id", contestID))
}

func (t *tx) ListPicksBySkater(ctx context.Context, contestID, skaterID string) ([]roster.Pick, error) {
	return selectPicks(ctx, t.tx, qb.Eq("contest_id", contestID), qb.Eq("skater_id", skaterID))
}

func (t *tx) InsertPick(ctx context.Context, pick roster.Pick) error {
	query, args, err := qb.InsertModel("picks", pickInsertModel{
		PlayerID:     pick.PlayerID,
		ContestID:    pick.ContestID,
		SkaterID:     pick.SkaterID,
		PointsEarned: pick.PointsEarned,
		CreatedAt:    pick.CreatedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert pick query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: skater=%s", roster.ErrDuplicatePick, pick.SkaterID)
		}
		return fmt.Errorf("insert pick: %w", err)
	}
	return nil
}

func (t *tx) DeletePick(ctx context.Context, playerID, contestID, skaterID string) (bool, error) {
	query, args, err := qb.DeleteFrom("picks").
		Where(qb.Eq("player_id", playerID), qb.Eq("contest_id", contestID), qb.Eq("skater_id", skaterID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete pick query: %w", err)
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete pick: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("delete pick rows affected: %w", err)
	}
	return n > 0, nil
}

func (t *tx) DeletePlayerPicks(ctx context.Context, playerID, contestID string) (int, error) {
	query, args, err := qb.DeleteFrom("picks").
		Where(qb.Eq("player_id", playerID), qb.Eq("contest_id", contestID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete player picks query: %w", err)
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete player picks: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("delete player picks rows affected: %w", err)
	}
	return n, nil
}

// SetPickPoints writes only rows whose value differs, so a repeated cascade
// touches nothing.
func (t *tx) SetPickPoints(ctx context.Context, contestID string, points map[string]int64) (int, error) {
	skaterIDs := make([]string, 0, len(points))
	for id := range points {
		skaterIDs = append(skaterIDs, id)
	}
	sort.Strings(skaterIDs)
	values := make([]int64, 0, len(skaterIDs))
	for _, id := range skaterIDs {
		values = append(values, points[id])
	}

	res, err := t.tx.ExecContext(ctx, `
UPDATE picks AS p
SET points_earned = v.points
FROM unnest($2::text[], $3::bigint[]) AS v(skater_id, points)
WHERE p.contest_id = $1
  AND p.skater_id = v.skater_id
  AND p.points_earned IS DISTINCT FROM v.points`, contestID, pq.Array(skaterIDs), pq.Array(values))
	if err != nil {
		return 0, fmt.Errorf("set scored pick points: %w", err)
	}
	scored, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("set scored pick points rows affected: %w", err)
	}

	res, err = t.tx.ExecContext(ctx, `
UPDATE picks
SET points_earned = 0
WHERE contest_id = $1
  AND NOT (skater_id = ANY($2::text[]))
  AND points_earned IS DISTINCT FROM 0`, contestID, pq.Array(skaterIDs))
	if err != nil {
		return 0, fmt.Errorf("zero unscored pick points: %w", err)
	}
	zeroed, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("zero unscored pick points rows affected: %w", err)
	}

	return scored + zeroed, nil
}

func (t *tx) InsertEntitlement(ctx context.Context, e roster.Entitlement) (bool, error) {
	query, args, err := qb.InsertModel("replacement_entitlements", entitlementInsertModel{
		PlayerID:          e.PlayerID,
		ContestID:         e.ContestID,
		WithdrawnSkaterID: e.WithdrawnSkaterID,
		CreatedAt:         e.CreatedAt.UTC(),
	}, `ON CONFLICT (player_id, contest_id, withdrawn_skater_id) DO NOTHING`)
	if err != nil {
		return false, fmt.Errorf("build insert entitlement query: %w", err)
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert entitlement: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("insert entitlement rows affected: %w", err)
	}
	return n == 1, nil
}

func (t *tx) GetEntitlement(ctx context.Context, playerID, contestID, withdrawnSkaterID string) (roster.Entitlement, bool, error) {
	items, err := selectEntitlements(ctx, t.tx,
		qb.Eq("player_id", playerID),
		qb.Eq("contest_id", contestID),
		qb.Eq("withdrawn_skater_id", withdrawnSkaterID),
	)
	if err != nil {
		return roster.Entitlement{}, false, err
	}
	if len(items) == 0 {
		return roster.Entitlement{}, false, nil
	}
	return items[0], true, nil
}

func (t *tx) ConsumeEntitlement(ctx context.Context, playerID, contestID, withdrawnSkaterID, replacementSkaterID string, at time.Time) (bool, error) {
	query, args, err := qb.Update("replacement_entitlements").
		Set("replacement_skater_id", replacementSkaterID).
		Set("replaced_at", at.UTC()).
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("contest_id", contestID),
			qb.Eq("withdrawn_skater_id", withdrawnSkaterID),
			qb.IsNull("replacement_skater_id"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build consume entitlement query: %w", err)
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("consume entitlement: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("consume entitlement rows affected: %w", err)
	}
	return n == 1, nil
}

func (t *tx) InsertNotification(ctx context.Context, n notification.Notification) error {
	query, args, err := qb.InsertModel("notifications", notificationInsertFromDomain(n), "")
	if err != nil {
		return fmt.Errorf("build insert notification query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (t *tx) ListResults(ctx context.Context, contestID string) ([]scoring.Result, error) {
	return listResults(ctx, t.tx, contestID)
}

func (t *tx) UpsertResult(ctx context.Context, result scoring.Result) error {
	query, args, err := qb.InsertModel("contest_results", resultModelFromDomain(result), `ON CONFLICT (contest_id, skater_id)
DO UPDATE SET
    placement = EXCLUDED.placement,
    short_placement = EXCLUDED.short_placement,
    faults = EXCLUDED.faults,
    personal_best = EXCLUDED.personal_best,
    withdrawn = EXCLUDED.withdrawn,
    raw_points = EXCLUDED.raw_points,
    final_points = EXCLUDED.final_points,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert result query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

func (t *tx) UpdateResultPoints(ctx context.Context, contestID, skaterID string, points scoring.Points) error {
	query, args, err := qb.Update("contest_results").
		Set("raw_points", points.Raw).
		Set("final_points", points.Final).
		Where(qb.Eq("contest_id", contestID), qb.Eq("skater_id", skaterID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update result points query: %w", err)
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update result points: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("update result points rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("result not found: contest=%s skater=%s", contestID, skaterID)
	}
	return nil
}
