package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/skate-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/skate-fantasy/internal/platform/id"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

const testContestID = "c1"

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

// testPrices are the entry prices of the skaters entered in testContestID.
var testPrices = map[string]int64{
	"s1": 15_000_000,
	"s2": 12_000_000,
	"s3": 13_000_000,
	"s4": 10_000_000,
	"s5": 20_000_000,
	"s6": 5_000_000,
}

type testEnv struct {
	store      *memory.Store
	roster     *RosterService
	withdrawal *WithdrawalService
	results    *ResultsService
	contests   *ContestService
	pricing    *PricingService
	standings  *StandingService
}

type envOption func(*memory.Seed)

type memorySeed = memory.Seed

func withContest(mutate func(c *contest.Contest)) envOption {
	return func(seed *memory.Seed) {
		for i := range seed.Contests {
			if seed.Contests[i].ID == testContestID {
				mutate(&seed.Contests[i])
			}
		}
	}
}

func newTestEnv(t *testing.T, sink notification.Sink, opts ...envOption) *testEnv {
	t.Helper()

	lockAt := testNow.Add(48 * time.Hour)
	seed := memory.Seed{
		Contests: []contest.Contest{{
			ID:            testContestID,
			Name:          "Test Cup",
			SlotCount:     3,
			BudgetCeiling: 40_000_000,
			Multiplier:    decimal.NewFromInt(1),
			LockAt:        &lockAt,
			Status:        contest.StatusOpen,
			CreatedAt:     testNow,
			UpdatedAt:     testNow,
		}},
	}
	for id, price := range testPrices {
		seed.Skaters = append(seed.Skaters, skater.Skater{ID: id, Name: id, Price: price})
		seed.Entries = append(seed.Entries, contest.Entry{ContestID: testContestID, SkaterID: id, Price: price, CreatedAt: testNow})
	}
	for _, opt := range opts {
		opt(&seed)
	}

	store := memory.NewStore(seed)
	logger := logging.NewNop()
	loader := cache.NewLoader(cache.NewStore(time.Minute))
	clock := func() time.Time { return testNow }

	env := &testEnv{
		store: store,
		roster: NewRosterService(
			memory.NewContestRepository(store),
			memory.NewRosterRepository(store),
			store,
			logger,
		),
		withdrawal: NewWithdrawalService(
			memory.NewRosterRepository(store),
			store,
			memory.NewStandingRepository(store),
			loader.Cache(),
			NewNotificationDispatcher(sink, 2, logger),
			&idgen.SequenceGenerator{Prefix: "n-"},
			2,
			logger,
		),
		results: NewResultsService(
			memory.NewScoringRepository(store),
			store,
			memory.NewStandingRepository(store),
			scoring.DefaultRules(),
			loader,
			2,
			logger,
		),
		contests:  NewContestService(memory.NewContestRepository(store), memory.NewSkaterRepository(store), store, logger),
		pricing:   NewPricingService(memory.NewSkaterRepository(store), store, logger),
		standings: NewStandingService(memory.NewStandingRepository(store), loader),
	}
	env.roster.now = clock
	env.withdrawal.now = clock
	env.results.now = clock
	env.contests.now = clock
	env.pricing.now = clock

	return env
}

func (e *testEnv) addPicks(t *testing.T, playerID string, skaterIDs ...string) {
	t.Helper()
	for _, id := range skaterIDs {
		if _, err := e.roster.AddPick(t.Context(), PickInput{PlayerID: playerID, ContestID: testContestID, SkaterID: id}); err != nil {
			t.Fatalf("add pick %s for %s: %v", id, playerID, err)
		}
	}
}

func (e *testEnv) setNow(now time.Time) {
	clock := func() time.Time { return now }
	e.roster.now = clock
	e.withdrawal.now = clock
	e.results.now = clock
	e.contests.now = clock
	e.pricing.now = clock
}
