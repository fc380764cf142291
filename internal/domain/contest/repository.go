package contest

import "context"

type Repository interface {
	GetByID(ctx context.Context, contestID string) (Contest, bool, error)
	ListEntries(ctx context.Context, contestID string) ([]Entry, error)
}
