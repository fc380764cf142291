package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
)

type tx struct {
	st *state
}

func (t *tx) GetContest(_ context.Context, contestID string) (contest.Contest, bool, error) {
	c, ok := t.st.contests[contestID]
	return c, ok, nil
}

func (t *tx) UpdateContestStatus(_ context.Context, contestID string, status contest.Status, at time.Time) error {
	c, ok := t.st.contests[contestID]
	if !ok {
		return fmt.Errorf("contest not found: %s", contestID)
	}
	c.Status = status
	c.UpdatedAt = at
	t.st.contests[contestID] = c
	return nil
}

func (t *tx) SetReplacementDeadline(_ context.Context, contestID string, deadline time.Time) error {
	c, ok := t.st.contests[contestID]
	if !ok {
		return fmt.Errorf("contest not found: %s", contestID)
	}
	c.ReplacementDeadline = &deadline
	t.st.contests[contestID] = c
	return nil
}

func (t *tx) GetEntry(_ context.Context, contestID, skaterID string) (contest.Entry, bool, error) {
	e, ok := t.st.entries[entryKey{contestID, skaterID}]
	return e, ok, nil
}

func (t *tx) ListEntries(_ context.Context, contestID string) ([]contest.Entry, error) {
	return contestEntries(t.st, contestID), nil
}

func (t *tx) InsertEntry(_ context.Context, entry contest.Entry) error {
	key := entryKey{entry.ContestID, entry.SkaterID}
	if _, exists := t.st.entries[key]; exists {
		return fmt.Errorf("%w: contest=%s skater=%s", contest.ErrEntryExists, entry.ContestID, entry.SkaterID)
	}
	t.st.entries[key] = entry
	return nil
}

func (t *tx) UpdateEntryPrice(_ context.Context, contestID, skaterID string, price int64) error {
	key := entryKey{contestID, skaterID}
	e, ok := t.st.entries[key]
	if !ok {
		return fmt.Errorf("entry not found: contest=%s skater=%s", contestID, skaterID)
	}
	e.Price = price
	t.st.entries[key] = e
	return nil
}

func (t *tx) MarkEntryWithdrawn(_ context.Context, contestID, skaterID string, at time.Time) error {
	key := entryKey{contestID, skaterID}
	e, ok := t.st.entries[key]
	if !ok {
		return fmt.Errorf("entry not found: contest=%s skater=%s", contestID, skaterID)
	}
	e.Withdrawn = true
	e.WithdrawnAt = &at
	t.st.entries[key] = e
	return nil
}

func (t *tx) ListPicks(_ context.Context, playerID, contestID string) ([]roster.Pick, error) {
	return playerPicks(t.st, playerID, contestID), nil
}

func (t *tx) ListContestPicks(_ context.Context, contestID string) ([]roster.Pick, error) {
	out := make([]roster.Pick, 0)
	for k, p := range t.st.picks {
		if k.contestID == contestID {
			out = append(out, p)
		}
	}
	return sortedPicks(out), nil
}

func (t *tx) ListPicksBySkater(_ context.Context, contestID, skaterID string) ([]roster.Pick, error) {
	out := make([]roster.Pick, 0)
	for k, p := range t.st.picks {
		if k.contestID == contestID && k.skaterID == skaterID {
			out = append(out, p)
		}
	}
	return sortedPicks(out), nil
}

func (t *tx) InsertPick(_ context.Context, pick roster.Pick) error {
	key := pickKey{pick.PlayerID, pick.ContestID, pick.SkaterID}
	if _, exists := t.st.picks[key]; exists {
		return fmt.Errorf("%w: skater=%s", roster.ErrDuplicatePick, pick.SkaterID)
	}
	t.st.picks[key] = pick
	return nil
}

func (t *tx) DeletePick(_ context.Context, playerID, contestID, skaterID string) (bool, error) {
	key := pickKey{playerID, contestID, skaterID}
	if _, exists := t.st.picks[key]; !exists {
		return false, nil
	}
	delete(t.st.picks, key)
	return true, nil
}

func (t *tx) DeletePlayerPicks(_ context.Context, playerID, contestID string) (int, error) {
	deleted := 0
	for k := range t.st.picks {
		if k.playerID == playerID && k.contestID == contestID {
			delete(t.st.picks, k)
			deleted++
		}
	}
	return deleted, nil
}

func (t *tx) SetPickPoints(_ context.Context, contestID string, points map[string]int64) (int, error) {
	updated := 0
	for k, p := range t.st.picks {
		if k.contestID != contestID {
			continue
		}
		value := points[k.skaterID]
		if p.PointsEarned != nil && *p.PointsEarned == value {
			continue
		}
		p.PointsEarned = &value
		t.st.picks[k] = p
		updated++
	}
	return updated, nil
}

func (t *tx) InsertEntitlement(_ context.Context, e roster.Entitlement) (bool, error) {
	key := pickKey{e.PlayerID, e.ContestID, e.WithdrawnSkaterID}
	if _, exists := t.st.entitlements[key]; exists {
		return false, nil
	}
	t.st.entitlements[key] = e
	return true, nil
}

func (t *tx) GetEntitlement(_ context.Context, playerID, contestID, withdrawnSkaterID string) (roster.Entitlement, bool, error) {
	e, ok := t.st.entitlements[pickKey{playerID, contestID, withdrawnSkaterID}]
	return e, ok, nil
}

func (t *tx) ConsumeEntitlement(_ context.Context, playerID, contestID, withdrawnSkaterID, replacementSkaterID string, at time.Time) (bool, error) {
	key := pickKey{playerID, contestID, withdrawnSkaterID}
	e, ok := t.st.entitlements[key]
	if !ok || !e.Pending() {
		return false, nil
	}
	e.ReplacementSkaterID = replacementSkaterID
	e.ReplacedAt = &at
	t.st.entitlements[key] = e
	return true, nil
}

func (t *tx) InsertNotification(_ context.Context, n notification.Notification) error {
	t.st.notifications = append(t.st.notifications, n)
	return nil
}

func (t *tx) ListResults(_ context.Context, contestID string) ([]scoring.Result, error) {
	return contestResults(t.st, contestID), nil
}

func (t *tx) UpsertResult(_ context.Context, result scoring.Result) error {
	t.st.results[entryKey{result.ContestID, result.SkaterID}] = result
	return nil
}

func (t *tx) UpdateResultPoints(_ context.Context, contestID, skaterID string, points scoring.Points) error {
	key := entryKey{contestID, skaterID}
	r, ok := t.st.results[key]
	if !ok {
		return fmt.Errorf("result not found: contest=%s skater=%s", contestID, skaterID)
	}
	r.RawPoints = points.Raw
	r.FinalPoints = points.Final
	t.st.results[key] = r
	return nil
}
