package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
)

// Store runs units of work as database transactions. Locks map to
// transaction-scoped advisory locks keyed by hashtext(lock key), so they are
// released on commit or rollback.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, locks []roster.Lock, fn func(ctx context.Context, tx roster.Tx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	for _, lock := range locks {
		if _, err := sqlTx.ExecContext(ctx, advisoryLockQuery(lock.Mode), lock.Key); err != nil {
			return fmt.Errorf("acquire lock %s: %w", lock.Key, err)
		}
	}

	if err := fn(ctx, &tx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func advisoryLockQuery(mode roster.LockMode) string {
	if mode == roster.LockShared {
		return `SELECT pg_advisory_xact_lock_shared(hashtext($1))`
	}
	return `SELECT pg_advisory_xact_lock(hashtext($1))`
}
