package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := fmt.Errorf("insert pick: %w", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
		if isUniqueViolation(sql.ErrNoRows) {
			t.Fatalf("expected false for non-pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get contest: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
}

func TestAdvisoryLockQuery(t *testing.T) {
	if got := advisoryLockQuery(roster.LockShared); got != `SELECT pg_advisory_xact_lock_shared(hashtext($1))` {
		t.Fatalf("unexpected shared lock query: %s", got)
	}
	if got := advisoryLockQuery(roster.LockExclusive); got != `SELECT pg_advisory_xact_lock(hashtext($1))` {
		t.Fatalf("unexpected exclusive lock query: %s", got)
	}
}

func TestNullInt64ToPtr(t *testing.T) {
	if got := nullInt64ToPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for null, got %d", *got)
	}
	got := nullInt64ToPtr(sql.NullInt64{Int64: 0, Valid: true})
	if got == nil || *got != 0 {
		t.Fatalf("expected pointer to zero")
	}
}
