package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
	"github.com/riskibarqy/skate-fantasy/internal/observability"
	"github.com/riskibarqy/skate-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/skate-fantasy/internal/platform/id"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

type WithdrawInput struct {
	ContestID           string
	SkaterID            string
	ReplacementDeadline *time.Time
}

type WithdrawResult struct {
	ContestID           string
	SkaterID            string
	AffectedCount       int
	EntitlementsCreated int
	AlreadyWithdrawn    bool
}

type ConsumeReplacementInput struct {
	PlayerID            string
	ContestID           string
	WithdrawnSkaterID   string
	ReplacementSkaterID string
}

type WithdrawalService struct {
	rosterRepo roster.Repository
	store      roster.Store
	totals     *totalsRefresher
	dispatcher *NotificationDispatcher
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewWithdrawalService(
	rosterRepo roster.Repository,
	store roster.Store,
	standingRepo standing.Repository,
	c cache.Cache,
	dispatcher *NotificationDispatcher,
	idGen idgen.Generator,
	aggregationWorkers int,
	logger *logging.Logger,
) *WithdrawalService {
	if logger == nil {
		logger = logging.Default()
	}

	return &WithdrawalService{
		rosterRepo: rosterRepo,
		store:      store,
		totals:     newTotalsRefresher(standingRepo, c, aggregationWorkers, logger),
		dispatcher: dispatcher,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// WithdrawCompetitor marks the skater withdrawn, revokes every pick on them
// and grants each affected player one replacement entitlement. It ignores
// the contest lock and may be re-run safely.
func (s *WithdrawalService) WithdrawCompetitor(ctx context.Context, input WithdrawInput) (WithdrawResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WithdrawalService.WithdrawCompetitor", contestAttr(input.ContestID))
	defer span.End()

	input.ContestID = strings.TrimSpace(input.ContestID)
	input.SkaterID = strings.TrimSpace(input.SkaterID)
	if input.ContestID == "" || input.SkaterID == "" {
		return WithdrawResult{}, fmt.Errorf("%w: contest_id and skater_id are required", ErrInvalidInput)
	}

	now := s.now().UTC()
	result := WithdrawResult{ContestID: input.ContestID, SkaterID: input.SkaterID}
	var (
		notes        []notification.Notification
		touchedScore []string
	)
	locks := []roster.Lock{roster.ContestLock(input.ContestID, roster.LockExclusive)}
	err := s.store.WithinTx(ctx, locks, func(ctx context.Context, tx roster.Tx) error {
		if _, err := loadContest(ctx, tx, input.ContestID); err != nil {
			return err
		}
		entry, err := loadEntry(ctx, tx, input.ContestID, input.SkaterID)
		if err != nil {
			return err
		}

		result.AlreadyWithdrawn = entry.Withdrawn
		if !entry.Withdrawn {
			if err := tx.MarkEntryWithdrawn(ctx, input.ContestID, input.SkaterID, now); err != nil {
				return fmt.Errorf("mark entry withdrawn: %w", err)
			}
		}
		if input.ReplacementDeadline != nil {
			if err := tx.SetReplacementDeadline(ctx, input.ContestID, input.ReplacementDeadline.UTC()); err != nil {
				return fmt.Errorf("set replacement deadline: %w", err)
			}
		}

		picks, err := tx.ListPicksBySkater(ctx, input.ContestID, input.SkaterID)
		if err != nil {
			return fmt.Errorf("list picks by skater: %w", err)
		}
		for _, p := range picks {
			if _, err := tx.DeletePick(ctx, p.PlayerID, p.ContestID, p.SkaterID); err != nil {
				return fmt.Errorf("delete pick player=%s: %w", p.PlayerID, err)
			}
			result.AffectedCount++
			if p.PointsEarned != nil {
				touchedScore = append(touchedScore, p.PlayerID)
			}

			created, err := tx.InsertEntitlement(ctx, roster.Entitlement{
				PlayerID:          p.PlayerID,
				ContestID:         p.ContestID,
				WithdrawnSkaterID: p.SkaterID,
				CreatedAt:         now,
			})
			if err != nil {
				return fmt.Errorf("insert entitlement player=%s: %w", p.PlayerID, err)
			}
			if !created {
				continue
			}
			result.EntitlementsCreated++

			note, err := s.replacementNotification(p, now)
			if err != nil {
				return err
			}
			if err := tx.InsertNotification(ctx, note); err != nil {
				return fmt.Errorf("insert notification player=%s: %w", p.PlayerID, err)
			}
			notes = append(notes, note)
		}
		return nil
	})
	if err != nil {
		return WithdrawResult{}, markKind(err)
	}

	observability.WithdrawalsTotal.Inc()
	observability.EntitlementsGrantedTotal.Add(float64(result.EntitlementsCreated))

	// revoked picks that already carried points change the season totals
	if len(touchedScore) > 0 {
		if _, err := s.totals.refresh(ctx, touchedScore, now); err != nil {
			return result, err
		}
	}
	s.dispatcher.Dispatch(ctx, notes)

	s.logger.InfoContext(ctx, "skater withdrawn",
		"contest_id", input.ContestID,
		"skater_id", input.SkaterID,
		"affected_count", result.AffectedCount,
		"entitlements_created", result.EntitlementsCreated,
		"already_withdrawn", result.AlreadyWithdrawn,
	)

	return result, nil
}

// ConsumeReplacement swaps the withdrawn skater for a new one using the
// player's pending entitlement. The pick insert and the entitlement update
// commit together or not at all.
func (s *WithdrawalService) ConsumeReplacement(ctx context.Context, input ConsumeReplacementInput) (roster.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WithdrawalService.ConsumeReplacement", contestAttr(input.ContestID))
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.ContestID = strings.TrimSpace(input.ContestID)
	input.WithdrawnSkaterID = strings.TrimSpace(input.WithdrawnSkaterID)
	input.ReplacementSkaterID = strings.TrimSpace(input.ReplacementSkaterID)
	if input.PlayerID == "" || input.ContestID == "" || input.WithdrawnSkaterID == "" || input.ReplacementSkaterID == "" {
		return roster.Pick{}, fmt.Errorf("%w: player_id, contest_id, withdrawn_skater_id and replacement_skater_id are required", ErrInvalidInput)
	}

	now := s.now().UTC()
	var pick roster.Pick
	err := s.store.WithinTx(ctx, rosterLocks(input.PlayerID, input.ContestID), func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}

		ent, exists, err := tx.GetEntitlement(ctx, input.PlayerID, input.ContestID, input.WithdrawnSkaterID)
		if err != nil {
			return fmt.Errorf("get entitlement: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: contest=%s withdrawn_skater=%s", roster.ErrEntitlementNotFound, input.ContestID, input.WithdrawnSkaterID)
		}
		if !ent.Pending() {
			return fmt.Errorf("%w: contest=%s withdrawn_skater=%s replacement=%s",
				roster.ErrEntitlementConsumed, input.ContestID, input.WithdrawnSkaterID, ent.ReplacementSkaterID)
		}
		if err := contest.EnsureReplacementWindow(c, now); err != nil {
			return err
		}

		replacement, err := loadEntry(ctx, tx, input.ContestID, input.ReplacementSkaterID)
		if err != nil {
			return err
		}
		held, err := heldEntries(ctx, tx, input.PlayerID, input.ContestID)
		if err != nil {
			return err
		}
		if err := roster.ValidateSwap(c, held, input.WithdrawnSkaterID, replacement); err != nil {
			return err
		}

		pointsEarned, err := scoredPoints(ctx, tx, input.ContestID, input.ReplacementSkaterID)
		if err != nil {
			return err
		}

		if _, err := tx.DeletePick(ctx, input.PlayerID, input.ContestID, input.WithdrawnSkaterID); err != nil {
			return fmt.Errorf("delete withdrawn pick: %w", err)
		}
		pick = roster.Pick{
			PlayerID:     input.PlayerID,
			ContestID:    input.ContestID,
			SkaterID:     input.ReplacementSkaterID,
			PointsEarned: pointsEarned,
			CreatedAt:    now,
		}
		if err := tx.InsertPick(ctx, pick); err != nil {
			return fmt.Errorf("insert replacement pick: %w", err)
		}

		consumed, err := tx.ConsumeEntitlement(ctx, input.PlayerID, input.ContestID, input.WithdrawnSkaterID, input.ReplacementSkaterID, now)
		if err != nil {
			return fmt.Errorf("consume entitlement: %w", err)
		}
		if !consumed {
			return fmt.Errorf("%w: contest=%s withdrawn_skater=%s", roster.ErrEntitlementConsumed, input.ContestID, input.WithdrawnSkaterID)
		}
		return nil
	})
	err = markKind(err)
	observability.ReplacementsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		return roster.Pick{}, err
	}

	if pick.PointsEarned != nil {
		if _, err := s.totals.refresh(ctx, []string{input.PlayerID}, now); err != nil {
			return pick, err
		}
	}

	s.logger.InfoContext(ctx, "replacement consumed",
		"player_id", input.PlayerID,
		"contest_id", input.ContestID,
		"withdrawn_skater_id", input.WithdrawnSkaterID,
		"replacement_skater_id", input.ReplacementSkaterID,
	)

	return pick, nil
}

func (s *WithdrawalService) ListEntitlements(ctx context.Context, playerID, contestID string) ([]roster.Entitlement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WithdrawalService.ListEntitlements")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}

	items, err := s.rosterRepo.ListEntitlements(ctx, playerID, strings.TrimSpace(contestID))
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	return items, nil
}

func (s *WithdrawalService) replacementNotification(p roster.Pick, now time.Time) (notification.Notification, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("generate notification id: %w", err)
	}
	return notification.Notification{
		ID:        id,
		PlayerID:  p.PlayerID,
		ContestID: p.ContestID,
		SkaterID:  p.SkaterID,
		Kind:      notification.KindReplacementGranted,
		Message: fmt.Sprintf("Skater %s withdrew from contest %s. You may pick one replacement.",
			p.SkaterID, p.ContestID),
		CreatedAt: now,
	}, nil
}

// scoredPoints returns what the cascade would assign the skater's pick: nil
// before the contest has results, zero when the skater has none.
func scoredPoints(ctx context.Context, tx roster.Tx, contestID, skaterID string) (*int64, error) {
	results, err := tx.ListResults(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	var points int64
	for _, r := range results {
		if r.SkaterID == skaterID {
			points = r.FinalPoints
			break
		}
	}
	return &points, nil
}
