package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
	"github.com/riskibarqy/skate-fantasy/internal/observability"
	"github.com/riskibarqy/skate-fantasy/internal/platform/cache"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

type RowOutcome string

const (
	RowImported RowOutcome = "imported"
	RowUpdated  RowOutcome = "updated"
	RowSkipped  RowOutcome = "skipped"
	RowError    RowOutcome = "error"
)

type ResultRow struct {
	SkaterID       string
	Placement      int
	ShortPlacement int
	Faults         int
	PersonalBest   bool
	Withdrawn      bool
	// ParseError is set by decoders that could not read a cell of this row.
	ParseError string
}

type ImportResultsInput struct {
	ContestID string
	Rows      []ResultRow
}

type ImportLogEntry struct {
	Row      int
	SkaterID string
	Outcome  RowOutcome
	Message  string
}

type ImportReport struct {
	ContestID string
	Imported  int
	Updated   int
	Skipped   int
	Errors    int
	Log       []ImportLogEntry
	Cascade   CascadeReport
}

type CascadeReport struct {
	ContestID        string
	ResultsScored    int
	ResultsChanged   int
	PicksUpdated     int
	PlayersRefreshed int
}

type ResultsService struct {
	scoringRepo scoring.Repository
	store       roster.Store
	rules       scoring.Rules
	totals      *totalsRefresher
	loader      *cache.Loader
	logger      *logging.Logger
	now         func() time.Time
}

func NewResultsService(
	scoringRepo scoring.Repository,
	store roster.Store,
	standingRepo standing.Repository,
	rules scoring.Rules,
	loader *cache.Loader,
	aggregationWorkers int,
	logger *logging.Logger,
) *ResultsService {
	if logger == nil {
		logger = logging.Default()
	}
	if loader == nil {
		loader = cache.NewLoader(nil)
	}

	return &ResultsService{
		scoringRepo: scoringRepo,
		store:       store,
		rules:       rules,
		totals:      newTotalsRefresher(standingRepo, loader.Cache(), aggregationWorkers, logger),
		loader:      loader,
		logger:      logger,
		now:         time.Now,
	}
}

// ImportResults stores each row independently and then runs the aggregation
// cascade for the contest. Bad rows are reported in the log; the call fails
// only when the payload or the contest is unusable.
func (s *ResultsService) ImportResults(ctx context.Context, input ImportResultsInput) (ImportReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.ImportResults", contestAttr(input.ContestID))
	defer span.End()

	input.ContestID = strings.TrimSpace(input.ContestID)
	if input.ContestID == "" {
		return ImportReport{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}
	if len(input.Rows) == 0 {
		return ImportReport{}, fmt.Errorf("%w: at least one result row is required", ErrInvalidInput)
	}

	start := time.Now()
	now := s.now().UTC()
	report := ImportReport{ContestID: input.ContestID}
	var players []string
	locks := []roster.Lock{roster.ContestLock(input.ContestID, roster.LockExclusive)}
	err := s.store.WithinTx(ctx, locks, func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}
		entries, err := entriesBySkater(ctx, tx, input.ContestID)
		if err != nil {
			return err
		}
		stored, err := tx.ListResults(ctx, input.ContestID)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		existing := make(map[string]scoring.Result, len(stored))
		for _, r := range stored {
			existing[r.SkaterID] = r
		}

		seen := make(map[string]struct{}, len(input.Rows))
		for i, row := range input.Rows {
			entry := s.importRow(ctx, tx, c, i+1, row, entries, existing, seen, now)
			if err := entry.err; err != nil {
				return err
			}
			report.Log = append(report.Log, entry.log)
			switch entry.log.Outcome {
			case RowImported:
				report.Imported++
			case RowUpdated:
				report.Updated++
			case RowSkipped:
				report.Skipped++
			default:
				report.Errors++
			}
			observability.ResultRowsTotal.WithLabelValues(string(entry.log.Outcome)).Inc()
		}

		report.Cascade, players, err = s.applyCascade(ctx, tx, c)
		return err
	})
	if err != nil {
		return ImportReport{}, markKind(err)
	}

	refreshed, err := s.finishCascade(ctx, input.ContestID, players, now)
	report.Cascade.PlayersRefreshed = refreshed
	observability.AggregationDuration.WithLabelValues("import").Observe(time.Since(start).Seconds())
	if err != nil {
		return report, err
	}

	s.logger.InfoContext(ctx, "results imported",
		"contest_id", input.ContestID,
		"imported", report.Imported,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"errors", report.Errors,
		"players_refreshed", refreshed,
	)

	return report, nil
}

// Recalculate re-runs the cascade from stored results. Running it twice with
// no data change in between writes nothing the second time.
func (s *ResultsService) Recalculate(ctx context.Context, contestID string) (CascadeReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.Recalculate", contestAttr(contestID))
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return CascadeReport{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	start := time.Now()
	now := s.now().UTC()
	var (
		report  CascadeReport
		players []string
	)
	locks := []roster.Lock{roster.ContestLock(contestID, roster.LockExclusive)}
	err := s.store.WithinTx(ctx, locks, func(ctx context.Context, tx roster.Tx) error {
		c, err := loadContest(ctx, tx, contestID)
		if err != nil {
			return err
		}
		report, players, err = s.applyCascade(ctx, tx, c)
		return err
	})
	if err != nil {
		return CascadeReport{}, markKind(err)
	}

	refreshed, err := s.finishCascade(ctx, contestID, players, now)
	report.PlayersRefreshed = refreshed
	observability.AggregationDuration.WithLabelValues("recalculate").Observe(time.Since(start).Seconds())
	if err != nil {
		return report, err
	}

	s.logger.InfoContext(ctx, "contest recalculated",
		"contest_id", contestID,
		"results_scored", report.ResultsScored,
		"results_changed", report.ResultsChanged,
		"picks_updated", report.PicksUpdated,
		"players_refreshed", refreshed,
	)

	return report, nil
}

func (s *ResultsService) ListContestResults(ctx context.Context, contestID string) ([]scoring.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.ListContestResults")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	return cache.Load(ctx, s.loader, resultsCacheKeyPrefix+contestID, func(ctx context.Context) ([]scoring.Result, error) {
		items, err := s.scoringRepo.ListResults(ctx, contestID)
		if err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		return items, nil
	})
}

type rowResult struct {
	log ImportLogEntry
	err error
}

func (s *ResultsService) importRow(
	ctx context.Context,
	tx roster.Tx,
	c contest.Contest,
	rowNum int,
	row ResultRow,
	entries map[string]contest.Entry,
	existing map[string]scoring.Result,
	seen map[string]struct{},
	now time.Time,
) rowResult {
	skaterID := strings.TrimSpace(row.SkaterID)
	entry := ImportLogEntry{Row: rowNum, SkaterID: skaterID}
	reject := func(outcome RowOutcome, msg string) rowResult {
		entry.Outcome = outcome
		entry.Message = msg
		return rowResult{log: entry}
	}

	if skaterID == "" {
		return reject(RowError, "skater_id is required")
	}
	if row.ParseError != "" {
		return reject(RowError, row.ParseError)
	}
	if _, dup := seen[skaterID]; dup {
		return reject(RowSkipped, "duplicate skater in payload")
	}
	seen[skaterID] = struct{}{}

	in := scoring.Input{
		Placement:      row.Placement,
		ShortPlacement: row.ShortPlacement,
		Faults:         row.Faults,
		PersonalBest:   row.PersonalBest,
		Withdrawn:      row.Withdrawn,
	}
	if err := scoring.ValidateInput(in); err != nil {
		return reject(RowError, err.Error())
	}
	if _, ok := entries[skaterID]; !ok {
		return reject(RowError, fmt.Sprintf("%s: contest=%s skater=%s", roster.ErrSkaterNotEntered, c.ID, skaterID))
	}

	points := scoring.Score(in, c.Multiplier, s.rules)
	result := scoring.Result{
		ContestID:   c.ID,
		SkaterID:    skaterID,
		Input:       in,
		RawPoints:   points.Raw,
		FinalPoints: points.Final,
		UpdatedAt:   now,
	}

	prev, had := existing[skaterID]
	if had && prev.SameInput(result) {
		return reject(RowSkipped, "unchanged")
	}
	if err := tx.UpsertResult(ctx, result); err != nil {
		return rowResult{err: fmt.Errorf("upsert result skater=%s: %w", skaterID, err)}
	}
	existing[skaterID] = result

	entry.Outcome = RowImported
	if had {
		entry.Outcome = RowUpdated
	}
	return rowResult{log: entry}
}

// applyCascade scores every stored result and copies final points onto the
// contest's picks. It returns the players whose totals need a refresh.
func (s *ResultsService) applyCascade(ctx context.Context, tx roster.Tx, c contest.Contest) (CascadeReport, []string, error) {
	report := CascadeReport{ContestID: c.ID}

	results, err := tx.ListResults(ctx, c.ID)
	if err != nil {
		return report, nil, fmt.Errorf("list results: %w", err)
	}

	finalBySkater := make(map[string]int64, len(results))
	for _, r := range results {
		points := scoring.Score(r.Input, c.Multiplier, s.rules)
		finalBySkater[r.SkaterID] = points.Final
		report.ResultsScored++

		if points.Raw == r.RawPoints && points.Final == r.FinalPoints {
			continue
		}
		if err := tx.UpdateResultPoints(ctx, c.ID, r.SkaterID, points); err != nil {
			return report, nil, fmt.Errorf("update result points skater=%s: %w", r.SkaterID, err)
		}
		report.ResultsChanged++
	}

	updated, err := tx.SetPickPoints(ctx, c.ID, finalBySkater)
	if err != nil {
		return report, nil, fmt.Errorf("set pick points: %w", err)
	}
	report.PicksUpdated = updated

	picks, err := tx.ListContestPicks(ctx, c.ID)
	if err != nil {
		return report, nil, fmt.Errorf("list contest picks: %w", err)
	}
	seen := make(map[string]struct{}, len(picks))
	players := make([]string, 0, len(picks))
	for _, p := range picks {
		if _, ok := seen[p.PlayerID]; ok {
			continue
		}
		seen[p.PlayerID] = struct{}{}
		players = append(players, p.PlayerID)
	}
	sort.Strings(players)

	return report, players, nil
}

func (s *ResultsService) finishCascade(ctx context.Context, contestID string, players []string, now time.Time) (int, error) {
	s.totals.invalidateResults(ctx, contestID)
	refreshed, err := s.totals.refresh(ctx, players, now)
	if err != nil {
		return refreshed, fmt.Errorf("refresh season totals: %w", err)
	}
	return refreshed, nil
}
