package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
)

var seedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	boom := errors.New("boom")

	err := store.WithinTx(t.Context(), nil, func(ctx context.Context, tx roster.Tx) error {
		require.NoError(t, tx.InsertPick(ctx, roster.Pick{PlayerID: "p1", ContestID: ContestIDGrandPrixOpener, SkaterID: "sk-malinin", CreatedAt: seedNow}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	picks, err := NewRosterRepository(store).ListPicks(t.Context(), "p1", ContestIDGrandPrixOpener)
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestStore_WithinTx_RejectsCancelledContext(t *testing.T) {
	store := NewStore(Seed{})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	called := false
	err := store.WithinTx(ctx, nil, func(context.Context, roster.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTx_InsertPickAndEntitlementAreIdempotent(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	pick := roster.Pick{PlayerID: "p1", ContestID: ContestIDGrandPrixOpener, SkaterID: "sk-sato", CreatedAt: seedNow}
	ent := roster.Entitlement{PlayerID: "p1", ContestID: ContestIDGrandPrixOpener, WithdrawnSkaterID: "sk-sato", CreatedAt: seedNow}

	err := store.WithinTx(t.Context(), nil, func(ctx context.Context, tx roster.Tx) error {
		require.NoError(t, tx.InsertPick(ctx, pick))
		require.ErrorIs(t, tx.InsertPick(ctx, pick), roster.ErrDuplicatePick)

		created, err := tx.InsertEntitlement(ctx, ent)
		require.NoError(t, err)
		assert.True(t, created)
		created, err = tx.InsertEntitlement(ctx, ent)
		require.NoError(t, err)
		assert.False(t, created)

		consumed, err := tx.ConsumeEntitlement(ctx, "p1", ContestIDGrandPrixOpener, "sk-sato", "sk-cha", seedNow)
		require.NoError(t, err)
		assert.True(t, consumed)
		consumed, err = tx.ConsumeEntitlement(ctx, "p1", ContestIDGrandPrixOpener, "sk-sato", "sk-aymoz", seedNow)
		require.NoError(t, err)
		assert.False(t, consumed)
		return nil
	})
	require.NoError(t, err)

	items, err := NewRosterRepository(store).ListEntitlements(t.Context(), "p1", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sk-cha", items[0].ReplacementSkaterID)
}

func TestTx_SetPickPointsCountsOnlyChanges(t *testing.T) {
	store := NewStore(DemoSeed(seedNow))
	var first, second int
	err := store.WithinTx(t.Context(), nil, func(ctx context.Context, tx roster.Tx) error {
		for _, id := range []string{"sk-malinin", "sk-cha"} {
			require.NoError(t, tx.InsertPick(ctx, roster.Pick{PlayerID: "p1", ContestID: ContestIDGrandPrixOpener, SkaterID: id, CreatedAt: seedNow}))
		}
		var err error
		first, err = tx.SetPickPoints(ctx, ContestIDGrandPrixOpener, map[string]int64{"sk-malinin": 33})
		require.NoError(t, err)
		second, err = tx.SetPickPoints(ctx, ContestIDGrandPrixOpener, map[string]int64{"sk-malinin": 33})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, first)
	assert.Equal(t, 0, second)

	total, err := NewStandingRepository(store).RecomputePlayerTotal(t.Context(), "p1", seedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(33), total.Points)

	later, err := NewStandingRepository(store).RecomputePlayerTotal(t.Context(), "p1", seedNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, seedNow, later.UpdatedAt)
}
