package scoring

import "context"

type Repository interface {
	ListResults(ctx context.Context, contestID string) ([]Result, error)
}
