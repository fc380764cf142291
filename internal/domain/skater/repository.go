package skater

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, skaterID string) (Skater, bool, error)
	List(ctx context.Context) ([]Skater, error)
	UpdatePrices(ctx context.Context, prices map[string]int64, updatedAt time.Time) error
}
