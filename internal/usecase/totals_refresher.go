package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
	"github.com/riskibarqy/skate-fantasy/internal/platform/cache"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

const defaultAggregationWorkers = 8

const (
	standingsCacheKeyPrefix = "standings:"
	resultsCacheKeyPrefix   = "results:"
)

// totalsRefresher recomputes season totals from picks. Each recompute
// overwrites the stored total with a fresh sum, so it is safe to repeat.
type totalsRefresher struct {
	standingRepo standing.Repository
	cache        cache.Cache
	workers      int
	logger       *logging.Logger
}

func newTotalsRefresher(standingRepo standing.Repository, c cache.Cache, workers int, logger *logging.Logger) *totalsRefresher {
	if c == nil {
		c = cache.Nop{}
	}
	if workers <= 0 {
		workers = defaultAggregationWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &totalsRefresher{standingRepo: standingRepo, cache: c, workers: workers, logger: logger}
}

func (r *totalsRefresher) refresh(ctx context.Context, playerIDs []string, at time.Time) (int, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	sort.Strings(playerIDs)

	pool, err := ants.NewPool(r.workers)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers  sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		failed   int
	)
	for _, playerID := range playerIDs {
		playerID := playerID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if _, err := r.standingRepo.RecomputePlayerTotal(ctx, playerID, at); err != nil {
				r.logger.ErrorContext(ctx, "recompute season total failed", "player_id", playerID, "error", err)
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = fmt.Errorf("recompute season total player=%s: %w", playerID, err)
				}
				mu.Unlock()
			}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return 0, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	r.invalidateStandings(ctx)
	if firstErr != nil {
		return len(playerIDs) - failed, firstErr
	}
	return len(playerIDs), nil
}

func (r *totalsRefresher) invalidateStandings(ctx context.Context) {
	r.cache.DeletePrefix(ctx, standingsCacheKeyPrefix)
}

func (r *totalsRefresher) invalidateResults(ctx context.Context, contestID string) {
	r.cache.Delete(ctx, resultsCacheKeyPrefix+contestID)
}
