package standing

import (
	"context"
	"time"
)

type Repository interface {
	// RecomputePlayerTotal overwrites the stored total with the current sum.
	RecomputePlayerTotal(ctx context.Context, playerID string, at time.Time) (SeasonTotal, error)
	GetByPlayer(ctx context.Context, playerID string) (SeasonTotal, bool, error)
	// List returns totals ordered by points desc then player id, with Rank set.
	List(ctx context.Context, limit int) ([]SeasonTotal, error)
}
