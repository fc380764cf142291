package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	basecache "github.com/riskibarqy/skate-fantasy/internal/platform/cache"
)

const (
	skaterKeyPrefix  = "skater:"
	skaterListKey    = skaterKeyPrefix + "list"
	skaterByIDPrefix = skaterKeyPrefix + "id:"
)

// SkaterRepository reads skaters through the read-model cache. Price updates
// go to the next repository and then drop every cached skater.
type SkaterRepository struct {
	next   skater.Repository
	loader *basecache.Loader
}

func NewSkaterRepository(next skater.Repository, loader *basecache.Loader) *SkaterRepository {
	return &SkaterRepository{next: next, loader: loader}
}

func (r *SkaterRepository) List(ctx context.Context) ([]skater.Skater, error) {
	items, err := basecache.Load(ctx, r.loader, skaterListKey, func(ctx context.Context) ([]skater.Skater, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]skater.Skater(nil), items...), nil
}

func (r *SkaterRepository) GetByID(ctx context.Context, skaterID string) (skater.Skater, bool, error) {
	cached, err := basecache.Load(ctx, r.loader, skaterByIDPrefix+skaterID, func(ctx context.Context) (cachedSkaterByID, error) {
		item, exists, err := r.next.GetByID(ctx, skaterID)
		if err != nil {
			return cachedSkaterByID{}, err
		}
		return cachedSkaterByID{Value: item, Exists: exists}, nil
	})
	if err != nil {
		return skater.Skater{}, false, err
	}
	return cached.Value, cached.Exists, nil
}

func (r *SkaterRepository) UpdatePrices(ctx context.Context, prices map[string]int64, updatedAt time.Time) error {
	if err := r.next.UpdatePrices(ctx, prices, updatedAt); err != nil {
		return err
	}
	r.loader.Cache().DeletePrefix(ctx, skaterKeyPrefix)
	return nil
}

type cachedSkaterByID struct {
	Value  skater.Skater `json:"value"`
	Exists bool          `json:"exists"`
}
