package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

type ContestService struct {
	contestRepo contest.Repository
	skaterRepo  skater.Repository
	store       roster.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewContestService(
	contestRepo contest.Repository,
	skaterRepo skater.Repository,
	store roster.Store,
	logger *logging.Logger,
) *ContestService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ContestService{
		contestRepo: contestRepo,
		skaterRepo:  skaterRepo,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.GetContest")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	c, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	return c, nil
}

func (s *ContestService) ListEntries(ctx context.Context, contestID string) ([]contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.ListEntries")
	defer span.End()

	if _, err := s.GetContest(ctx, contestID); err != nil {
		return nil, err
	}

	entries, err := s.contestRepo.ListEntries(ctx, strings.TrimSpace(contestID))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// SetContestStatus moves the contest forward through its lifecycle.
func (s *ContestService) SetContestStatus(ctx context.Context, contestID string, status contest.Status) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.SetContestStatus")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	status = contest.Status(strings.TrimSpace(strings.ToLower(string(status))))
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}
	if !status.Valid() {
		return contest.Contest{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	now := s.now().UTC()
	var (
		updated contest.Contest
		from    contest.Status
	)
	locks := []roster.Lock{roster.ContestLock(contestID, roster.LockExclusive)}
	err := s.store.WithinTx(ctx, locks, func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, contestID)
		if err != nil {
			return err
		}
		if err := contest.ValidateTransition(c.Status, status); err != nil {
			return err
		}
		if err := tx.UpdateContestStatus(ctx, contestID, status, now); err != nil {
			return fmt.Errorf("update contest status: %w", err)
		}

		from = c.Status
		updated = c
		updated.Status = status
		updated.UpdatedAt = now
		return nil
	})
	if err != nil {
		return contest.Contest{}, markKind(err)
	}

	s.logger.InfoContext(ctx, "contest status changed",
		"contest_id", contestID,
		"from", string(from),
		"to", string(status),
	)

	return updated, nil
}

// EnterSkater registers a skater in an open contest at their current price.
func (s *ContestService) EnterSkater(ctx context.Context, contestID, skaterID string) (contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.EnterSkater")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	skaterID = strings.TrimSpace(skaterID)
	if contestID == "" || skaterID == "" {
		return contest.Entry{}, fmt.Errorf("%w: contest_id and skater_id are required", ErrInvalidInput)
	}

	sk, exists, err := s.skaterRepo.GetByID(ctx, skaterID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("get skater: %w", err)
	}
	if !exists {
		return contest.Entry{}, fmt.Errorf("%w: skater=%s", ErrNotFound, skaterID)
	}

	now := s.now().UTC()
	entry := contest.Entry{
		ContestID: contestID,
		SkaterID:  skaterID,
		Price:     sk.Price,
		CreatedAt: now,
	}
	locks := []roster.Lock{roster.ContestLock(contestID, roster.LockExclusive)}
	err = s.store.WithinTx(ctx, locks, func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, contestID)
		if err != nil {
			return err
		}
		if err := contest.EnsureOpen(c, now); err != nil {
			return err
		}
		if err := tx.InsertEntry(ctx, entry); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return contest.Entry{}, markKind(err)
	}

	s.logger.InfoContext(ctx, "skater entered",
		"contest_id", contestID,
		"skater_id", skaterID,
		"price", entry.Price,
	)

	return entry, nil
}
