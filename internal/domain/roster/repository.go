package roster

import (
	"context"
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
)

// Repository serves reads that need no transaction.
type Repository interface {
	ListPicks(ctx context.Context, playerID, contestID string) ([]Pick, error)
	// ListEntitlements returns every entitlement of the player, optionally
	// restricted to one contest when contestID is not empty.
	ListEntitlements(ctx context.Context, playerID, contestID string) ([]Entitlement, error)
}

type LockMode int

const (
	LockShared LockMode = iota
	LockExclusive
)

// Lock names a mutual-exclusion section held for the whole transaction.
// Stores acquire locks in the order given.
type Lock struct {
	Key  string
	Mode LockMode
}

// ContestLock is taken shared by roster mutations and exclusive by
// operations that rewrite picks across players.
func ContestLock(contestID string, mode LockMode) Lock {
	return Lock{Key: "contest:" + contestID, Mode: mode}
}

func PlayerLock(playerID, contestID string) Lock {
	return Lock{Key: "roster:" + contestID + ":" + playerID, Mode: LockExclusive}
}

// Store runs fn as one unit of work. Nothing fn writes is visible to other
// callers unless fn returns nil.
type Store interface {
	WithinTx(ctx context.Context, locks []Lock, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of writes and consistent reads available inside a unit of work.
type Tx interface {
	GetContest(ctx context.Context, contestID string) (contest.Contest, bool, error)
	UpdateContestStatus(ctx context.Context, contestID string, status contest.Status, at time.Time) error
	SetReplacementDeadline(ctx context.Context, contestID string, deadline time.Time) error

	GetEntry(ctx context.Context, contestID, skaterID string) (contest.Entry, bool, error)
	ListEntries(ctx context.Context, contestID string) ([]contest.Entry, error)
	// InsertEntry returns contest.ErrEntryExists for a repeated (contest, skater).
	InsertEntry(ctx context.Context, entry contest.Entry) error
	UpdateEntryPrice(ctx context.Context, contestID, skaterID string, price int64) error
	MarkEntryWithdrawn(ctx context.Context, contestID, skaterID string, at time.Time) error

	ListPicks(ctx context.Context, playerID, contestID string) ([]Pick, error)
	ListContestPicks(ctx context.Context, contestID string) ([]Pick, error)
	ListPicksBySkater(ctx context.Context, contestID, skaterID string) ([]Pick, error)
	// InsertPick returns ErrDuplicatePick for a repeated (player, contest, skater).
	InsertPick(ctx context.Context, pick Pick) error
	DeletePick(ctx context.Context, playerID, contestID, skaterID string) (bool, error)
	DeletePlayerPicks(ctx context.Context, playerID, contestID string) (int, error)
	// SetPickPoints sets points earned on every pick in the contest. Skaters
	// absent from points get zero.
	SetPickPoints(ctx context.Context, contestID string, points map[string]int64) (int, error)

	// InsertEntitlement reports false when the entitlement already exists.
	InsertEntitlement(ctx context.Context, e Entitlement) (bool, error)
	GetEntitlement(ctx context.Context, playerID, contestID, withdrawnSkaterID string) (Entitlement, bool, error)
	// ConsumeEntitlement sets the replacement only while the entitlement is
	// still pending and reports whether it did.
	ConsumeEntitlement(ctx context.Context, playerID, contestID, withdrawnSkaterID, replacementSkaterID string, at time.Time) (bool, error)

	InsertNotification(ctx context.Context, n notification.Notification) error

	ListResults(ctx context.Context, contestID string) ([]scoring.Result, error)
	UpsertResult(ctx context.Context, result scoring.Result) error
	UpdateResultPoints(ctx context.Context, contestID, skaterID string, points scoring.Points) error
}
