package usecase

import (
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
)

func TestContestService_SetContestStatus_ForwardOnly(t *testing.T) {
	env := newTestEnv(t, nil)

	updated, err := env.contests.SetContestStatus(t.Context(), testContestID, contest.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, contest.StatusInProgress, updated.Status)

	_, err = env.contests.SetContestStatus(t.Context(), testContestID, contest.StatusLocked)
	assert.True(t, crerr.Is(err, contest.ErrInvalidStatusTransition))
	assert.True(t, crerr.Is(err, ErrConflict))

	_, err = env.contests.SetContestStatus(t.Context(), testContestID, contest.Status("archived"))
	assert.True(t, crerr.Is(err, ErrInvalidInput))

	_, err = env.contests.SetContestStatus(t.Context(), testContestID, "COMPLETED")
	require.NoError(t, err)
}

func TestContestService_EnterSkater(t *testing.T) {
	env := newTestEnv(t, nil, func(seed *memorySeed) {
		seed.Skaters = append(seed.Skaters, skater.Skater{ID: "s7", Name: "New Skater", Price: 7_500_000})
	})

	entry, err := env.contests.EnterSkater(t.Context(), testContestID, "s7")
	require.NoError(t, err)
	assert.Equal(t, int64(7_500_000), entry.Price)

	entries, err := env.contests.ListEntries(t.Context(), testContestID)
	require.NoError(t, err)
	assert.Len(t, entries, len(testPrices)+1)

	_, err = env.contests.EnterSkater(t.Context(), testContestID, "s7")
	assert.True(t, crerr.Is(err, contest.ErrEntryExists), "expected duplicate entry, got %v", err)
	assert.True(t, crerr.Is(err, ErrConflict))

	_, err = env.contests.EnterSkater(t.Context(), testContestID, "ghost")
	assert.True(t, crerr.Is(err, ErrNotFound))

	_, err = env.contests.SetContestStatus(t.Context(), testContestID, contest.StatusLocked)
	require.NoError(t, err)
	_, err = env.contests.EnterSkater(t.Context(), testContestID, "s7")
	assert.True(t, crerr.Is(err, contest.ErrContestNotOpen))

	_, err = env.contests.ListEntries(t.Context(), "missing")
	assert.True(t, crerr.Is(err, ErrNotFound))
}
