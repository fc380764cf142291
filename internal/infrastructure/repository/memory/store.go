package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
)

type entryKey struct {
	contestID string
	skaterID  string
}

type pickKey struct {
	playerID  string
	contestID string
	skaterID  string
}

type state struct {
	contests      map[string]contest.Contest
	entries       map[entryKey]contest.Entry
	picks         map[pickKey]roster.Pick
	entitlements  map[pickKey]roster.Entitlement
	results       map[entryKey]scoring.Result
	totals        map[string]standing.SeasonTotal
	skaters       map[string]skater.Skater
	notifications []notification.Notification
}

func newState() *state {
	return &state{
		contests:     make(map[string]contest.Contest),
		entries:      make(map[entryKey]contest.Entry),
		picks:        make(map[pickKey]roster.Pick),
		entitlements: make(map[pickKey]roster.Entitlement),
		results:      make(map[entryKey]scoring.Result),
		totals:       make(map[string]standing.SeasonTotal),
		skaters:      make(map[string]skater.Skater),
	}
}

// clone copies the maps. Pointer fields inside values are never mutated in
// place, so sharing them is safe.
func (s *state) clone() *state {
	return &state{
		contests:      maps.Clone(s.contests),
		entries:       maps.Clone(s.entries),
		picks:         maps.Clone(s.picks),
		entitlements:  maps.Clone(s.entitlements),
		results:       maps.Clone(s.results),
		totals:        maps.Clone(s.totals),
		skaters:       maps.Clone(s.skaters),
		notifications: append([]notification.Notification(nil), s.notifications...),
	}
}

type Seed struct {
	Contests []contest.Contest
	Entries  []contest.Entry
	Skaters  []skater.Skater
}

// Store keeps all state in process. One mutex serialises units of work, and
// a unit's writes land on a copy that replaces the live state on success.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore(seed Seed) *Store {
	st := newState()
	for _, c := range seed.Contests {
		st.contests[c.ID] = c
	}
	for _, e := range seed.Entries {
		st.entries[entryKey{e.ContestID, e.SkaterID}] = e
	}
	for _, sk := range seed.Skaters {
		st.skaters[sk.ID] = sk
	}
	return &Store{state: st}
}

func (s *Store) WithinTx(ctx context.Context, _ []roster.Lock, fn func(ctx context.Context, tx roster.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(ctx, &tx{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Notifications returns every persisted notification in insert order.
func (s *Store) Notifications() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]notification.Notification(nil), s.state.notifications...)
}

// withState runs fn against the live state outside any unit of work.
func (s *Store) withState(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func sortedPicks(in []roster.Pick) []roster.Pick {
	sort.Slice(in, func(i, j int) bool {
		if in[i].PlayerID != in[j].PlayerID {
			return in[i].PlayerID < in[j].PlayerID
		}
		if in[i].ContestID != in[j].ContestID {
			return in[i].ContestID < in[j].ContestID
		}
		return in[i].SkaterID < in[j].SkaterID
	})
	return in
}

func contestEntries(st *state, contestID string) []contest.Entry {
	out := make([]contest.Entry, 0)
	for k, e := range st.entries {
		if k.contestID == contestID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkaterID < out[j].SkaterID })
	return out
}

func playerPicks(st *state, playerID, contestID string) []roster.Pick {
	out := make([]roster.Pick, 0)
	for k, p := range st.picks {
		if k.playerID == playerID && k.contestID == contestID {
			out = append(out, p)
		}
	}
	return sortedPicks(out)
}

func contestResults(st *state, contestID string) []scoring.Result {
	out := make([]scoring.Result, 0)
	for k, r := range st.results {
		if k.contestID == contestID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkaterID < out[j].SkaterID })
	return out
}
