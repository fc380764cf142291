package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/skate-fantasy/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo skaters, contests and entries into an empty
// database. A database that already has contests is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM contests`); err != nil {
		return fmt.Errorf("count contests for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := memory.DemoSeed(now.UTC())

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, sk := range seed.Skaters {
		err := execNamed(ctx, tx, `
INSERT INTO skaters (id, name, country, ranking, price, updated_at)
VALUES (:id, :name, :country, :ranking, :price, :updated_at)
ON CONFLICT (id) DO NOTHING`, skaterInsertModel{
			ID:        sk.ID,
			Name:      sk.Name,
			Country:   sk.Country,
			Ranking:   sk.Ranking,
			Price:     sk.Price,
			UpdatedAt: now.UTC(),
		})
		if err != nil {
			return fmt.Errorf("seed skater %s: %w", sk.ID, err)
		}
	}

	for _, c := range seed.Contests {
		err := execNamed(ctx, tx, `
INSERT INTO contests (id, name, slot_count, budget_ceiling, multiplier, lock_at, status, created_at, updated_at)
VALUES (:id, :name, :slot_count, :budget_ceiling, :multiplier, :lock_at, :status, :created_at, :updated_at)
ON CONFLICT (id) DO NOTHING`, contestInsertModel{
			ID:            c.ID,
			Name:          c.Name,
			SlotCount:     c.SlotCount,
			BudgetCeiling: c.BudgetCeiling,
			Multiplier:    c.Multiplier,
			LockAt:        nullableTime(c.LockAt),
			Status:        string(c.Status),
			CreatedAt:     c.CreatedAt.UTC(),
			UpdatedAt:     c.UpdatedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("seed contest %s: %w", c.ID, err)
		}
	}

	for _, e := range seed.Entries {
		err := execNamed(ctx, tx, `
INSERT INTO contest_entries (contest_id, skater_id, price, created_at)
VALUES (:contest_id, :skater_id, :price, :created_at)
ON CONFLICT (contest_id, skater_id) DO NOTHING`, entryInsertModel{
			ContestID: e.ContestID,
			SkaterID:  e.SkaterID,
			Price:     e.Price,
			CreatedAt: e.CreatedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("seed entry %s/%s: %w", e.ContestID, e.SkaterID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func execNamed(ctx context.Context, tx *sqlx.Tx, query string, arg any) error {
	sqlQuery, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("bind query: %w", err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return err
	}
	return nil
}
