package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/observability"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

type PickInput struct {
	PlayerID  string
	ContestID string
	SkaterID  string
}

type ReplaceRosterInput struct {
	PlayerID  string
	ContestID string
	SkaterIDs []string
}

type RosterService struct {
	contestRepo contest.Repository
	rosterRepo  roster.Repository
	store       roster.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewRosterService(
	contestRepo contest.Repository,
	rosterRepo roster.Repository,
	store roster.Store,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		contestRepo: contestRepo,
		rosterRepo:  rosterRepo,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *RosterService) AddPick(ctx context.Context, input PickInput) (roster.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPick", contestAttr(input.ContestID))
	defer span.End()

	input, err := cleanPickInput(input)
	if err != nil {
		return roster.Pick{}, err
	}

	now := s.now().UTC()
	var pick roster.Pick
	err = s.store.WithinTx(ctx, rosterLocks(input.PlayerID, input.ContestID), func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}
		if err := contest.EnsureOpen(c, now); err != nil {
			return err
		}

		candidate, err := loadEntry(ctx, tx, input.ContestID, input.SkaterID)
		if err != nil {
			return err
		}
		held, err := heldEntries(ctx, tx, input.PlayerID, input.ContestID)
		if err != nil {
			return err
		}
		if err := roster.ValidateAdd(c, held, candidate); err != nil {
			return err
		}

		pick = roster.Pick{
			PlayerID:  input.PlayerID,
			ContestID: input.ContestID,
			SkaterID:  input.SkaterID,
			CreatedAt: now,
		}
		if err := tx.InsertPick(ctx, pick); err != nil {
			return fmt.Errorf("insert pick: %w", err)
		}
		return nil
	})
	err = markKind(err)
	observability.RosterMutationsTotal.WithLabelValues("add", outcomeLabel(err)).Inc()
	if err != nil {
		return roster.Pick{}, err
	}

	s.logger.InfoContext(ctx, "pick added",
		"player_id", input.PlayerID,
		"contest_id", input.ContestID,
		"skater_id", input.SkaterID,
	)

	return pick, nil
}

func (s *RosterService) RemovePick(ctx context.Context, input PickInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePick")
	defer span.End()

	input, err := cleanPickInput(input)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	err = s.store.WithinTx(ctx, rosterLocks(input.PlayerID, input.ContestID), func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}
		if err := contest.EnsureOpen(c, now); err != nil {
			return err
		}

		deleted, err := tx.DeletePick(ctx, input.PlayerID, input.ContestID, input.SkaterID)
		if err != nil {
			return fmt.Errorf("delete pick: %w", err)
		}
		if !deleted {
			return fmt.Errorf("%w: contest=%s skater=%s", roster.ErrPickNotFound, input.ContestID, input.SkaterID)
		}
		return nil
	})
	err = markKind(err)
	observability.RosterMutationsTotal.WithLabelValues("remove", outcomeLabel(err)).Inc()
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "pick removed",
		"player_id", input.PlayerID,
		"contest_id", input.ContestID,
		"skater_id", input.SkaterID,
	)

	return nil
}

// ReplaceRoster swaps the player's whole roster for the given set in one unit.
func (s *RosterService) ReplaceRoster(ctx context.Context, input ReplaceRosterInput) ([]roster.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ReplaceRoster")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.ContestID = strings.TrimSpace(input.ContestID)
	if input.PlayerID == "" || input.ContestID == "" {
		return nil, fmt.Errorf("%w: player_id and contest_id are required", ErrInvalidInput)
	}
	skaterIDs := make([]string, 0, len(input.SkaterIDs))
	for _, id := range input.SkaterIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: skater id cannot be empty", ErrInvalidInput)
		}
		skaterIDs = append(skaterIDs, id)
	}

	now := s.now().UTC()
	var picks []roster.Pick
	err := s.store.WithinTx(ctx, rosterLocks(input.PlayerID, input.ContestID), func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}
		if err := contest.EnsureOpen(c, now); err != nil {
			return err
		}

		entries, err := entriesBySkater(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}
		set := make([]contest.Entry, 0, len(skaterIDs))
		for _, id := range skaterIDs {
			e, ok := entries[id]
			if !ok {
				return fmt.Errorf("%w: contest=%s skater=%s", roster.ErrSkaterNotEntered, input.ContestID, id)
			}
			set = append(set, e)
		}
		if err := roster.ValidateRoster(c, set); err != nil {
			return err
		}

		if _, err := tx.DeletePlayerPicks(ctx, input.PlayerID, input.ContestID); err != nil {
			return fmt.Errorf("delete existing picks: %w", err)
		}
		picks = make([]roster.Pick, 0, len(set))
		for _, e := range set {
			pick := roster.Pick{
				PlayerID:  input.PlayerID,
				ContestID: input.ContestID,
				SkaterID:  e.SkaterID,
				CreatedAt: now,
			}
			if err := tx.InsertPick(ctx, pick); err != nil {
				return fmt.Errorf("insert pick: %w", err)
			}
			picks = append(picks, pick)
		}
		return nil
	})
	err = markKind(err)
	observability.RosterMutationsTotal.WithLabelValues("replace", outcomeLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "roster replaced",
		"player_id", input.PlayerID,
		"contest_id", input.ContestID,
		"pick_count", len(picks),
	)

	return picks, nil
}

// GetRoster returns the player's picks with spend and the current lock state.
func (s *RosterService) GetRoster(ctx context.Context, playerID, contestID string) (roster.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetRoster")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	contestID = strings.TrimSpace(contestID)
	if playerID == "" || contestID == "" {
		return roster.Summary{}, fmt.Errorf("%w: player_id and contest_id are required", ErrInvalidInput)
	}

	c, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return roster.Summary{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return roster.Summary{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	picks, err := s.rosterRepo.ListPicks(ctx, playerID, contestID)
	if err != nil {
		return roster.Summary{}, fmt.Errorf("list picks: %w", err)
	}
	entries, err := s.contestRepo.ListEntries(ctx, contestID)
	if err != nil {
		return roster.Summary{}, fmt.Errorf("list entries: %w", err)
	}
	priceBySkater := make(map[string]int64, len(entries))
	for _, e := range entries {
		priceBySkater[e.SkaterID] = e.Price
	}

	summary := roster.Summary{
		ContestID: contestID,
		PlayerID:  playerID,
		Picks:     make([]roster.PricedPick, 0, len(picks)),
		SlotsUsed: len(picks),
		SlotCount: c.SlotCount,
		Lock:      contest.EvaluateLock(c, s.now().UTC()),
	}
	for _, p := range picks {
		price := priceBySkater[p.SkaterID]
		summary.Spent += price
		summary.Picks = append(summary.Picks, roster.PricedPick{Pick: p, Price: price})
	}
	summary.Remaining = c.BudgetCeiling - summary.Spent

	return summary, nil
}

func cleanPickInput(input PickInput) (PickInput, error) {
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.ContestID = strings.TrimSpace(input.ContestID)
	input.SkaterID = strings.TrimSpace(input.SkaterID)
	if input.PlayerID == "" || input.ContestID == "" || input.SkaterID == "" {
		return PickInput{}, fmt.Errorf("%w: player_id, contest_id and skater_id are required", ErrInvalidInput)
	}
	return input, nil
}

// rosterLocks keeps withdrawals out while still letting different players
// edit their rosters in parallel.
func rosterLocks(playerID, contestID string) []roster.Lock {
	return []roster.Lock{
		roster.ContestLock(contestID, roster.LockShared),
		roster.PlayerLock(playerID, contestID),
	}
}

func loadContest(ctx context.Context, tx roster.Tx, contestID string) (contest.Contest, error) {
	c, exists, err := tx.GetContest(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	return c, nil
}

func loadEntry(ctx context.Context, tx roster.Tx, contestID, skaterID string) (contest.Entry, error) {
	e, exists, err := tx.GetEntry(ctx, contestID, skaterID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	if !exists {
		return contest.Entry{}, fmt.Errorf("%w: contest=%s skater=%s", roster.ErrSkaterNotEntered, contestID, skaterID)
	}
	return e, nil
}

func entriesBySkater(ctx context.Context, tx roster.Tx, contestID string) (map[string]contest.Entry, error) {
	entries, err := tx.ListEntries(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	out := make(map[string]contest.Entry, len(entries))
	for _, e := range entries {
		out[e.SkaterID] = e
	}
	return out, nil
}

// heldEntries returns the entries behind the player's current picks, with
// prices read inside the transaction.
func heldEntries(ctx context.Context, tx roster.Tx, playerID, contestID string) ([]contest.Entry, error) {
	picks, err := tx.ListPicks(ctx, playerID, contestID)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	if len(picks) == 0 {
		return nil, nil
	}
	entries, err := entriesBySkater(ctx, tx, contestID)
	if err != nil {
		return nil, err
	}

	held := make([]contest.Entry, 0, len(picks))
	for _, p := range picks {
		e, ok := entries[p.SkaterID]
		if !ok {
			return nil, fmt.Errorf("pick without entry: contest=%s skater=%s", contestID, p.SkaterID)
		}
		held = append(held, e)
	}
	return held, nil
}
