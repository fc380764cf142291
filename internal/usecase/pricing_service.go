package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/pricing"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

type RepriceReport struct {
	Total   int
	Changed int
}

type PropagateInput struct {
	ContestID string
	Force     bool
}

type PropagateReport struct {
	ContestID        string
	Updated          int
	Unchanged        int
	SkippedWithPicks int
}

type PricingService struct {
	skaterRepo skater.Repository
	store      roster.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewPricingService(skaterRepo skater.Repository, store roster.Store, logger *logging.Logger) *PricingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PricingService{
		skaterRepo: skaterRepo,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// RepriceSkaters recomputes every skater's current price from their ranking.
// Entries keep their own snapshot until PropagateEntryPrices runs.
func (s *PricingService) RepriceSkaters(ctx context.Context) (RepriceReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PricingService.RepriceSkaters")
	defer span.End()

	skaters, err := s.skaterRepo.List(ctx)
	if err != nil {
		return RepriceReport{}, fmt.Errorf("list skaters: %w", err)
	}

	changed := make(map[string]int64)
	for _, sk := range skaters {
		price := pricing.ForRanking(sk.Ranking)
		if price != sk.Price {
			changed[sk.ID] = price
		}
	}
	if len(changed) > 0 {
		if err := s.skaterRepo.UpdatePrices(ctx, changed, s.now().UTC()); err != nil {
			return RepriceReport{}, fmt.Errorf("update skater prices: %w", err)
		}
	}

	report := RepriceReport{Total: len(skaters), Changed: len(changed)}
	s.logger.InfoContext(ctx, "skaters repriced", "total", report.Total, "changed", report.Changed)
	return report, nil
}

// PropagateEntryPrices copies current skater prices onto the entries of an
// open contest. Entries already picked by someone keep their price unless
// Force is set; existing rosters are not re-validated.
func (s *PricingService) PropagateEntryPrices(ctx context.Context, input PropagateInput) (PropagateReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PricingService.PropagateEntryPrices")
	defer span.End()

	input.ContestID = strings.TrimSpace(input.ContestID)
	if input.ContestID == "" {
		return PropagateReport{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	skaters, err := s.skaterRepo.List(ctx)
	if err != nil {
		return PropagateReport{}, fmt.Errorf("list skaters: %w", err)
	}
	current := make(map[string]int64, len(skaters))
	for _, sk := range skaters {
		current[sk.ID] = sk.Price
	}

	now := s.now().UTC()
	report := PropagateReport{ContestID: input.ContestID}
	locks := []roster.Lock{roster.ContestLock(input.ContestID, roster.LockExclusive)}
	err = s.store.WithinTx(ctx, locks, func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}
		if err := contest.EnsureOpen(c, now); err != nil {
			return err
		}

		entries, err := tx.ListEntries(ctx, input.ContestID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		picks, err := tx.ListContestPicks(ctx, input.ContestID)
		if err != nil {
			return fmt.Errorf("list contest picks: %w", err)
		}
		picked := make(map[string]struct{}, len(picks))
		for _, p := range picks {
			picked[p.SkaterID] = struct{}{}
		}

		for _, e := range entries {
			price, ok := current[e.SkaterID]
			if !ok || price == e.Price {
				report.Unchanged++
				continue
			}
			if _, ok := picked[e.SkaterID]; ok && !input.Force {
				report.SkippedWithPicks++
				continue
			}
			if err := tx.UpdateEntryPrice(ctx, input.ContestID, e.SkaterID, price); err != nil {
				return fmt.Errorf("update entry price skater=%s: %w", e.SkaterID, err)
			}
			report.Updated++
		}
		return nil
	})
	if err != nil {
		return PropagateReport{}, markKind(err)
	}

	s.logger.InfoContext(ctx, "entry prices propagated",
		"contest_id", input.ContestID,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"skipped_with_picks", report.SkippedWithPicks,
		"force", input.Force,
	)

	return report, nil
}
